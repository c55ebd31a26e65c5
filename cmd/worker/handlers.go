package main

import (
	"github.com/hibiken/asynq"

	memberJob "library-backend/internal/domains/member/job"
	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteMemberPicture *memberJob.DeletePictureHandler
}

func initializeHandlers(store storage.FileStore) *HandlerRegistry {
	return &HandlerRegistry{
		deleteMemberPicture: memberJob.NewDeletePictureHandler(store),
	}
}

// RegisterHandlers maps task types to handlers
func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeDeleteMemberPicture, r.deleteMemberPicture)
}
