package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bolso-dev/bolso/internal/auth"
	"github.com/bolso-dev/bolso/internal/model"
)

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Currency  string `json:"currency"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req struct {
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}

	user, err := s.auth.Register(auth.RegisterParams{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	_, token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  renderUser(user),
		"token": token,
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}

	user, token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"user":  renderUser(user),
		"token": token,
	})
}

func (s *Server) handleChangePassword(c *fiber.Ctx) error {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	if err := s.auth.ChangePassword(userID(c), req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "password changed"})
}

func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	user, err := s.store.GetUser(userID(c))
	if err != nil {
		return err
	}
	return c.JSON(renderUser(user))
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	user, err := s.store.GetUser(userID(c))
	if err != nil {
		return err
	}

	var req struct {
		Username  *string `json:"username"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Currency  *string `json:"currency"`
		Timezone  *string `json:"timezone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Currency != nil {
		user.Currency = *req.Currency
	}
	if req.Timezone != nil {
		user.Timezone = *req.Timezone
	}

	if err := s.store.UpdateUser(&user); err != nil {
		return err
	}
	return c.JSON(renderUser(user))
}

func (s *Server) handleUserStats(c *fiber.Ctx) error {
	uid := userID(c)
	user, err := s.store.GetUser(uid)
	if err != nil {
		return err
	}

	totalTx, err := s.store.CountTransactions(uid)
	if err != nil {
		return err
	}
	categories, err := s.store.ListCategories(uid)
	if err != nil {
		return err
	}
	accounts, err := s.store.ListAccounts(uid)
	if err != nil {
		return err
	}
	nowTime := time.Now()
	monthTx, err := s.store.CountTransactionsInMonth(uid, nowTime.Year(), nowTime.Month())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user_since":              user.CreatedAt.Format(time.RFC3339),
		"total_transactions":      totalTx,
		"total_categories":        len(categories),
		"total_accounts":          len(accounts),
		"this_month_transactions": monthTx,
	})
}

func (s *Server) handleDeactivate(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	if err := s.auth.Deactivate(userID(c), req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "account deactivated"})
}

func renderUser(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Currency:  u.Currency,
		Timezone:  u.Timezone,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
