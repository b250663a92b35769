package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"issue_tracker/internal/app"
	"issue_tracker/internal/domain"
	"issue_tracker/internal/repository"
)

type userService struct {
	users repository.UserRepository
	log   zerolog.Logger
}

// NewUserService создаёт сервис для работы с пользователями.
func NewUserService(users repository.UserRepository, log zerolog.Logger) app.UserService {
	return &userService{
		users: users,
		log:   log.With().Str("svc", "user").Logger(),
	}
}

// Register заводит нового пользователя. Повторный логин даёт конфликт.
func (s *userService) Register(ctx context.Context, login, name string) (domain.User, error) {
	login = strings.TrimSpace(login)
	name = strings.TrimSpace(name)
	if login == "" {
		return domain.User{}, domain.Invalid("login must not be blank")
	}
	if name == "" {
		return domain.User{}, domain.Invalid("name must not be blank")
	}

	u := domain.User{Login: login, Name: name}
	if err := s.users.Create(ctx, u); err != nil {
		return domain.User{}, err
	}

	s.log.Info().Str("login", login).Msg("user registered")
	return u, nil
}

// Get возвращает пользователя или domain.ErrNotFound.
func (s *userService) Get(ctx context.Context, login string) (domain.User, error) {
	return s.users.GetByLogin(ctx, login)
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Rename меняет отображаемое имя; логин неизменен.
func (s *userService) Rename(ctx context.Context, login, name string) (domain.User, error) {
	name = strings.TrimSpace(name)

	u, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return domain.User{}, err
	}
	if name == "" {
		return domain.User{}, domain.Invalid("name must not be blank")
	}

	u.Name = name
	if err := s.users.Save(ctx, u); err != nil {
		return domain.User{}, err
	}

	s.log.Info().Str("login", login).Msg("user renamed")
	return u, nil
}

// RequireExists возвращает domain.ErrNotFound, если логин не зарегистрирован.
func (s *userService) RequireExists(ctx context.Context, login string) error {
	return requireUser(ctx, s.users, login)
}

func requireUser(ctx context.Context, users repository.UserRepository, login string) error {
	exists, err := users.Exists(ctx, login)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFound("user", login)
	}
	return nil
}
