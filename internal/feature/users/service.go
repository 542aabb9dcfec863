package users

import (
	"context"
	"fmt"

	"go-users-api/internal/apperr"
	"go-users-api/internal/domain"
	"go-users-api/internal/search"
	"go-users-api/internal/store"
	"go-users-api/pkg/utils"
)

// Service 把外部 DTO 翻译成仓储调用的薄编排层
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Repository() *Repository { return s.repo }

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (domain.User, error) {
	doc, err := s.repo.Create(ctx, dto.Document())
	if err != nil {
		return domain.User{}, err
	}
	return domain.UserFromDocument(doc).Sanitized(), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return domain.UserFromDocument(doc).Sanitized(), nil
}

func (s *Service) Patch(ctx context.Context, id string, dto PatchUserDTO) (domain.User, error) {
	doc, err := s.repo.Patch(ctx, id, store.Document(dto))
	if err != nil {
		return domain.User{}, err
	}
	return domain.UserFromDocument(doc).Sanitized(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) FindAll(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.repo.FindAll(ctx, params)
}

func (s *Service) FindOneByID(ctx context.Context, id string, params search.Params) (search.Object, error) {
	return s.repo.FindOneByID(ctx, id, params)
}

// VerifyCredentials 登录用：邮箱查用户（必须存在），再比对口令散列。
// 口令不匹配报 401，绝不提示具体差在哪。
func (s *Service) VerifyCredentials(ctx context.Context, dto LoginDTO) (domain.User, error) {
	hit, err := s.repo.FindOneByEmail(ctx, dto.Email, nil, true)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.UserFromDocument(hit)
	if !utils.CheckPassword(dto.Password, user.Password) {
		message := fmt.Sprintf("Invalid credentials for user with email %q", dto.Email)
		return domain.User{}, apperr.Unauthorized(message, nil).
			WithErrors(map[string]any{"email": dto.Email})
	}
	return user.Sanitized(), nil
}
