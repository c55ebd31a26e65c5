package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/domains/member/repository"
	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
	"library-backend/internal/shared/apperror"
	"library-backend/internal/shared/utils"
)

// Service - member use cases
type Service interface {
	ListMembers(ctx context.Context, req model.ListMembersRequest) (*model.ListMembersResponse, error)
	GetMember(ctx context.Context, id string) (*model.Member, error)
	CreateMember(ctx context.Context, req model.CreateMemberRequest, picture *model.Upload) (string, error)
	UpdateMember(ctx context.Context, id string, req model.UpdateMemberRequest, picture *model.Upload) (*model.Member, error)
	DeleteMember(ctx context.Context, id string) error
	GetFilterOptions(ctx context.Context) (*model.FilterOptions, error)
}

// PictureProcessor validates and normalises uploaded pictures
type PictureProcessor interface {
	ValidateImage(data []byte) error
	Normalize(data []byte) ([]byte, error)
}

// PictureJobs hands picture removal to the background worker
type PictureJobs interface {
	EnqueueDeletePicture(ctx context.Context, payload shared.DeletePicturePayload) error
}

type memberService struct {
	repo   repository.Repository
	store  storage.FileStore
	images PictureProcessor
	jobs   PictureJobs
	now    func() time.Time
}

// NewService - jobs may be nil, pictures are then removed inline
func NewService(repo repository.Repository, store storage.FileStore, images PictureProcessor, jobs PictureJobs) Service {
	return &memberService{repo: repo, store: store, images: images, jobs: jobs, now: time.Now}
}

func (s *memberService) ListMembers(ctx context.Context, req model.ListMembersRequest) (*model.ListMembersResponse, error) {
	status := model.Status(strings.TrimSpace(req.Status))
	if status != "" && !status.Valid() {
		return nil, model.ErrInvalidStatus
	}
	page, limit := utils.NormalizePage(req.Page, req.Limit)

	members, total, err := s.repo.List(ctx, model.MemberFilter{
		Search:       strings.TrimSpace(req.Search),
		Status:       status,
		Faculty:      strings.TrimSpace(req.Faculty),
		StudyProgram: strings.TrimSpace(req.StudyProgram),
		Offset:       utils.Offset(page, limit),
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}
	return &model.ListMembersResponse{
		Members:    members,
		Pagination: shared.NewPagination(total, page, limit),
	}, nil
}

func (s *memberService) GetMember(ctx context.Context, id string) (*model.Member, error) {
	if !utils.IsValidUUID(id) {
		return nil, model.ErrInvalidMemberID
	}
	return s.repo.GetByID(ctx, id)
}

// CreateMember stores the picture first and removes it again when the insert fails
func (s *memberService) CreateMember(ctx context.Context, req model.CreateMemberRequest, picture *model.Upload) (string, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return "", apperror.FromValidation(err)
	}

	joinDate, err := model.ParseDate(req.JoinDate)
	if err != nil {
		return "", apperror.Validation("join_date must be YYYY-MM-DD")
	}
	if joinDate.IsZero() {
		y, m, d := s.now().Date()
		joinDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	status := model.Status(req.Status)
	if status == "" {
		status = model.StatusPending
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id := uuid.New()
	var picturePath *string
	if picture != nil {
		p, err := s.savePicture(ctx, id.String(), picture)
		if err != nil {
			return "", err
		}
		picturePath = &p
	}

	err = s.repo.Create(ctx, model.NewMember{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		MemberCode:   req.MemberCode,
		NIM:          utils.StringPtr(req.NIM),
		Faculty:      utils.StringPtr(req.Faculty),
		StudyProgram: utils.StringPtr(req.StudyProgram),
		Phone:        utils.StringPtr(req.Phone),
		Address:      utils.StringPtr(req.Address),
		JoinDate:     joinDate,
		Status:       status,
		Picture:      picturePath,
	})
	if err != nil {
		if picturePath != nil {
			s.removePicture(ctx, *picturePath, "rollback")
		}
		return "", err
	}

	log.Info().Str("member_id", id.String()).Str("member_code", req.MemberCode).Msg("[MemberService] Member created")
	return id.String(), nil
}

func (s *memberService) UpdateMember(ctx context.Context, id string, req model.UpdateMemberRequest, picture *model.Upload) (*model.Member, error) {
	if !utils.IsValidUUID(id) {
		return nil, model.ErrInvalidMemberID
	}
	if req.IsEmpty() && picture == nil {
		return nil, model.ErrEmptyUpdate
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch, err := s.buildPatch(req)
	if err != nil {
		return nil, err
	}

	if picture != nil {
		p, err := s.savePicture(ctx, id, picture)
		if err != nil {
			return nil, err
		}
		patch.Picture = &p
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if patch.Picture != nil {
			s.removePicture(ctx, *patch.Picture, "rollback")
		}
		return nil, err
	}

	if patch.Picture != nil && current.ProfilePicture != nil && *current.ProfilePicture != "" {
		s.removePicture(ctx, *current.ProfilePicture, "superseded")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *memberService) buildPatch(req model.UpdateMemberRequest) (model.Patch, error) {
	p := model.Patch{
		Name:         trimmed(req.Name),
		MemberCode:   trimmed(req.MemberCode),
		NIM:          req.NIM,
		Faculty:      req.Faculty,
		StudyProgram: req.StudyProgram,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if req.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*req.Email))
		p.Email = &e
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return p, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		p.PasswordHash = &h
	}
	if req.JoinDate != nil && strings.TrimSpace(*req.JoinDate) != "" {
		d, err := model.ParseDate(*req.JoinDate)
		if err != nil {
			return p, apperror.Validation("join_date must be YYYY-MM-DD")
		}
		p.JoinDate = &d
	}
	if req.Status != nil && *req.Status != "" {
		st := model.Status(*req.Status)
		p.Status = &st
	}
	return p, nil
}

// DeleteMember removes member and account; refused while a book is on loan
func (s *memberService) DeleteMember(ctx context.Context, id string) error {
	if !utils.IsValidUUID(id) {
		return model.ErrInvalidMemberID
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.repo.HasActiveBorrowings(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return model.ErrMemberHasActiveLoans
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed.ProfilePicture != nil && *removed.ProfilePicture != "" {
		s.removePicture(ctx, *removed.ProfilePicture, "member_deleted")
	}

	log.Info().Str("member_id", id).Msg("[MemberService] Member deleted")
	return nil
}

func (s *memberService) GetFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	faculties, programs, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}
	return &model.FilterOptions{
		Statuses:      model.Statuses(),
		Faculties:     faculties,
		StudyPrograms: programs,
	}, nil
}

// ---- pictures ----

func (s *memberService) savePicture(ctx context.Context, memberID string, up *model.Upload) (string, error) {
	if err := s.images.ValidateImage(up.Data); err != nil {
		return "", apperror.Wrap(model.ErrInvalidPicture, err.Error())
	}
	data, err := s.images.Normalize(up.Data)
	if err != nil {
		return "", apperror.Wrap(model.ErrInvalidPicture, err.Error())
	}

	name := fmt.Sprintf("members/member_%s_%d.jpg", memberID, s.now().UnixMilli())
	path, err := s.store.Save(ctx, name, data, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("save profile picture: %w", err)
	}
	return path, nil
}

// removePicture prefers the worker and falls back to deleting inline
func (s *memberService) removePicture(ctx context.Context, path, reason string) {
	if s.jobs != nil {
		err := s.jobs.EnqueueDeletePicture(ctx, shared.DeletePicturePayload{Path: path, Reason: reason})
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("path", path).Msg("[MemberService] Enqueue failed, deleting inline")
	}
	if err := s.store.Delete(ctx, path); err != nil {
		log.Error().Err(err).Str("path", path).Str("reason", reason).Msg("[MemberService] Failed to delete picture")
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
