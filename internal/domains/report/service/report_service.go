package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	borrowingModel "library-backend/internal/domains/borrowing/model"
	"library-backend/internal/domains/report/model"
	"library-backend/internal/domains/report/repository"
	"library-backend/internal/shared/utils"
)

// MaxExportRows caps the size of one XLSX export
const MaxExportRows = 5000

const exportSheet = "Peminjaman"

// BorrowingLister is the borrowing listing the reports are built on
type BorrowingLister interface {
	List(ctx context.Context, req borrowingModel.ListBorrowingsRequest) (*borrowingModel.ListBorrowingsResponse, error)
}

// Service - dashboard and borrowing reports
type Service interface {
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	BorrowingReport(ctx context.Context, req model.BorrowingReportRequest) (*borrowingModel.ListBorrowingsResponse, error)
	ExportBorrowings(ctx context.Context, req model.BorrowingReportRequest) (*excelize.File, error)
}

type reportService struct {
	repo       repository.Repository
	borrowings BorrowingLister
	now        func() time.Time
}

func NewService(repo repository.Repository, borrowings BorrowingLister) Service {
	return &reportService{repo: repo, borrowings: borrowings, now: time.Now}
}

func (s *reportService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	var (
		totals model.Totals
		stats  []model.BookStat
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.Totals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.repo.BookStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.Dashboard{
		Totals:       totals,
		PopularBooks: RankBooks(stats, s.now().Year(), model.PopularLimit),
	}, nil
}

func (s *reportService) BorrowingReport(ctx context.Context, req model.BorrowingReportRequest) (*borrowingModel.ListBorrowingsResponse, error) {
	return s.borrowings.List(ctx, listRequest(req))
}

// ExportBorrowings renders every borrowing matching the filter into a workbook.
// Page and limit of the request are ignored.
func (s *reportService) ExportBorrowings(ctx context.Context, req model.BorrowingReportRequest) (*excelize.File, error) {
	list := listRequest(req)
	list.Limit = utils.MaxLimit

	var rows []borrowingModel.Borrowing
	for page := 1; ; page++ {
		list.Page = page
		res, err := s.borrowings.List(ctx, list)
		if err != nil {
			return nil, err
		}
		if res.Pagination.Total > MaxExportRows {
			return nil, model.ErrExportTooLarge
		}
		rows = append(rows, res.Borrowings...)
		if len(res.Borrowings) == 0 || page >= res.Pagination.TotalPages {
			break
		}
	}

	f, err := s.buildBorrowingsExcel(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	log.Info().Int("rows", len(rows)).Str("status", list.Status).Msg("[ReportService] Borrowings exported")
	return f, nil
}

// listRequest maps the report filter onto the borrowing listing; "all" means no status filter
func listRequest(req model.BorrowingReportRequest) borrowingModel.ListBorrowingsRequest {
	status := strings.TrimSpace(req.Status)
	if strings.EqualFold(status, model.StatusAll) {
		status = ""
	}
	return borrowingModel.ListBorrowingsRequest{
		Search: req.Search,
		Status: status,
		Page:   req.Page,
		Limit:  req.Limit,
	}
}

var exportHeaders = []string{
	"No",
	"Kode Anggota",
	"Nama Anggota",
	"NIM",
	"Fakultas",
	"Program Studi",
	"Judul Buku",
	"Penulis",
	"ISBN",
	"Tanggal Pinjam",
	"Jatuh Tempo",
	"Tanggal Kembali",
	"Status",
	"Terlambat",
	"Catatan Admin",
}

func (s *reportService) buildBorrowingsExcel(rows []borrowingModel.Borrowing) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
	})
	if err != nil {
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	now := s.now()
	for i, b := range rows {
		overdue := "Tidak"
		if b.IsOverdue(now) {
			overdue = "Ya"
		}
		values := []interface{}{
			i + 1,
			b.MemberCode,
			b.MemberName,
			utils.Deref(b.NIM),
			utils.Deref(b.Faculty),
			utils.Deref(b.StudyProgram),
			b.BookTitle,
			b.BookAuthor,
			utils.Deref(b.BookISBN),
			b.BorrowDate.Format(borrowingModel.DateLayout),
			b.DueDate.Format(borrowingModel.DateLayout),
			formatOptionalDate(b.ReturnDate),
			string(b.Status),
			overdue,
			utils.Deref(b.AdminNotes),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", lastCol, 18); err != nil {
		return nil, err
	}
	return f, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(borrowingModel.DateLayout)
}
