package application

import (
	"context"

	admindomain "github.com/sngm3741/survey-club-services/api/internal/admin/domain"
)

type userService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, paging Paging) ([]admindomain.User, error) {
	return s.repo.Find(ctx, paging)
}

func (s *userService) Detail(ctx context.Context, id string) (*admindomain.User, error) {
	return s.repo.FindByID(ctx, id)
}
