package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/borrowing/model"
	"library-backend/internal/domains/borrowing/repository"
	"library-backend/internal/shared"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/metrics"
	"library-backend/internal/shared/utils"
)

const memberStatusActive = "aktif"

// Service - borrowing lifecycle
type Service interface {
	Create(ctx context.Context, req model.CreateBorrowingRequest) (*model.Borrowing, error)
	Transition(ctx context.Context, id string, req model.TransitionRequest) (*model.Borrowing, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*model.Borrowing, error)
	List(ctx context.Context, req model.ListBorrowingsRequest) (*model.ListBorrowingsResponse, error)
	ListByMember(ctx context.Context, caller shared.Identity, memberID string, req model.ListBorrowingsRequest) (*model.ListBorrowingsResponse, error)
}

type borrowingService struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) Service {
	return &borrowingService{repo: repo}
}

// Create queues a new borrowing; stock is untouched until it becomes active
func (s *borrowingService) Create(ctx context.Context, req model.CreateBorrowingRequest) (*model.Borrowing, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	borrowDate, _ := time.Parse(model.DateLayout, req.BorrowDate)
	dueDate, _ := time.Parse(model.DateLayout, req.DueDate)
	if dueDate.Before(borrowDate) {
		return nil, model.ErrDueBeforeBorrow
	}

	status, err := s.repo.MemberStatus(ctx, req.MemberID)
	if err != nil && !errors.Is(err, repository.ErrMissing) {
		return nil, err
	}
	if err != nil || status != memberStatusActive {
		return nil, model.ErrMemberIneligible
	}

	book, err := s.repo.BookAvailability(ctx, req.BookID)
	if err != nil && !errors.Is(err, repository.ErrMissing) {
		return nil, err
	}
	if err != nil || !book.IsActive || book.Stock < 1 {
		return nil, model.ErrBookUnavailable
	}

	id, err := s.repo.Create(ctx, model.NewBorrowing{
		BookID:     uuid.MustParse(req.BookID),
		MemberID:   uuid.MustParse(req.MemberID),
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	})
	if err != nil {
		return nil, err
	}

	metrics.BorrowingsCreated.Inc()
	log.Info().Str("borrowing_id", id.String()).Str("book_id", req.BookID).Str("member_id", req.MemberID).
		Msg("[BorrowingService] Borrowing queued")
	return s.repo.GetByID(ctx, id.String())
}

// Transition moves a borrowing along the lifecycle and adjusts stock
func (s *borrowingService) Transition(ctx context.Context, id string, req model.TransitionRequest) (*model.Borrowing, error) {
	if !utils.IsValidUUID(id) {
		return nil, model.ErrInvalidID
	}
	target := model.Status(strings.TrimSpace(req.Status))
	if !target.Valid() {
		return nil, model.ErrInvalidStatus
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := model.PlanTransition(current.Status, target, req.Notes())
	if err != nil {
		metrics.RecordRejection("invalid_transition")
		return nil, err
	}

	if err := s.repo.ApplyTransition(ctx, id, plan); err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindOutOfStock:
			metrics.RecordRejection("out_of_stock")
		case apperror.KindInvalidTransition:
			metrics.RecordRejection("invalid_transition")
		}
		return nil, err
	}

	metrics.RecordTransition(string(plan.From), string(plan.To))
	log.Info().Str("borrowing_id", id).Str("plan", plan.String()).Msg("[BorrowingService] Status changed")
	return s.repo.GetByID(ctx, id)
}

// Delete removes a non-active borrowing without touching stock
func (s *borrowingService) Delete(ctx context.Context, id string) error {
	if !utils.IsValidUUID(id) {
		return model.ErrInvalidID
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == model.StatusActive {
		metrics.RecordRejection("conflict")
		return model.ErrDeleteActive
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("borrowing_id", id).Msg("[BorrowingService] Borrowing deleted")
	return nil
}

func (s *borrowingService) GetByID(ctx context.Context, id string) (*model.Borrowing, error) {
	if !utils.IsValidUUID(id) {
		return nil, model.ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *borrowingService) List(ctx context.Context, req model.ListBorrowingsRequest) (*model.ListBorrowingsResponse, error) {
	return s.list(ctx, "", req)
}

// ListByMember lets anggota callers see only the member record bound to their account
func (s *borrowingService) ListByMember(ctx context.Context, caller shared.Identity, memberID string, req model.ListBorrowingsRequest) (*model.ListBorrowingsResponse, error) {
	if !utils.IsValidUUID(memberID) {
		return nil, apperror.Validation("Invalid member id")
	}

	if caller.Role == shared.RoleAnggota {
		owner, err := s.repo.MemberUserID(ctx, memberID)
		if err != nil && !errors.Is(err, repository.ErrMissing) {
			return nil, err
		}
		if err != nil || owner != caller.ID {
			return nil, model.ErrNotOwnMember
		}
	}

	req.Search = ""
	return s.list(ctx, memberID, req)
}

func (s *borrowingService) list(ctx context.Context, memberID string, req model.ListBorrowingsRequest) (*model.ListBorrowingsResponse, error) {
	status := model.Status(strings.TrimSpace(req.Status))
	if status != "" && !status.Valid() {
		return nil, model.ErrInvalidStatus
	}
	page, limit := utils.NormalizePage(req.Page, req.Limit)

	items, total, err := s.repo.List(ctx, model.Filter{
		Search:   strings.TrimSpace(req.Search),
		Status:   status,
		MemberID: memberID,
		Offset:   utils.Offset(page, limit),
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	return &model.ListBorrowingsResponse{
		Borrowings: items,
		Pagination: shared.NewPagination(total, page, limit),
	}, nil
}
