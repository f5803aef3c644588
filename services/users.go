package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/repository"
	"github.com/Kariqs/tannaro-api/utils"
	"golang.org/x/sync/errgroup"
)

const DefaultUserLimit = 100

type userStore interface {
	repository.UserRepository
	repository.OrderRepository
}

type UserService struct {
	store userStore
	log   *slog.Logger
	now   func() time.Time
}

func NewUserService(store userStore, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{store: store, log: logger, now: func() time.Time { return time.Now().UTC() }}
}

type UserListParams struct {
	Search string
	Page   int
	Limit  int
}

type UserList struct {
	Users      []models.UserSummary
	Pagination models.Pagination
}

// List pages through accounts newest first, attaching each account's order
// count and its spending over non-cancelled orders.
func (s *UserService) List(ctx context.Context, params UserListParams) (UserList, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = DefaultUserLimit
	}
	q := repository.UserQuery{Search: strings.TrimSpace(params.Search)}

	total, err := s.store.CountUsers(ctx, q)
	if err != nil {
		s.log.Error("failed to count users", "error", err)
		return UserList{}, utils.Dependency("count users", err)
	}
	users, err := s.store.ListUsers(ctx, q, repository.Page{Number: params.Page, Limit: params.Limit})
	if err != nil {
		s.log.Error("failed to fetch users", "error", err)
		return UserList{}, utils.Dependency("fetch users", err)
	}

	summaries := make([]models.UserSummary, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)
	for i, user := range users {
		g.Go(func() error {
			email := strings.ToLower(user.Email)
			orders, err := s.store.CountOrders(gctx, repository.OrderQuery{Email: email})
			if err != nil {
				return err
			}
			spent, err := s.store.SumOrderTotals(gctx, repository.OrderQuery{Email: email, Statuses: models.RevenueStatuses})
			if err != nil {
				return err
			}
			summaries[i] = summarize(user, orders, roundMoney(spent))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("failed to compute user order stats", "error", err)
		return UserList{}, utils.Dependency("compute user stats", err)
	}

	return UserList{
		Users: summaries,
		Pagination: models.Pagination{
			Total: total,
			Page:  params.Page,
			Limit: params.Limit,
			Pages: int(math.Ceil(float64(total) / float64(params.Limit))),
		},
	}, nil
}

func summarize(user models.User, orders int64, spent float64) models.UserSummary {
	phone := user.Phone
	if phone == "" {
		phone = "N/A"
	}
	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	return models.UserSummary{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Phone:      phone,
		Role:       role,
		Image:      user.Image,
		Orders:     orders,
		TotalSpent: spent,
		Joined:     user.CreatedAt,
	}
}

func (s *UserService) Profile(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.User{}, utils.NewValidationError("Email is required")
	}
	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, &utils.NotFoundError{Entity: "User"}
	}
	if err != nil {
		s.log.Error("failed to fetch user profile", "error", err)
		return models.User{}, utils.Dependency("fetch user profile", err)
	}
	return user, nil
}

type ProfileUpdate struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (s *UserService) UpdateProfile(ctx context.Context, update ProfileUpdate) (models.User, error) {
	user, err := s.Profile(ctx, update.Email)
	if err != nil {
		return models.User{}, err
	}
	if update.Name != nil {
		user.Name = strings.TrimSpace(*update.Name)
	}
	if update.Phone != nil {
		user.Phone = strings.TrimSpace(*update.Phone)
	}
	user.UpdatedAt = s.now()

	if err := s.store.ReplaceUser(ctx, user); err != nil {
		s.log.Error("failed to update user profile", "userId", user.ID.Hex(), "error", err)
		return models.User{}, utils.Dependency("update user profile", err)
	}
	return user, nil
}
