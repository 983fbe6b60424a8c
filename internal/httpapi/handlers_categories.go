package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bolso-dev/bolso/internal/model"
)

type categoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
	CategoryType string `json:"category_type"`
	IsActive     *bool  `json:"is_active"`
}

func (r categoryRequest) validate() error {
	if r.Name == "" {
		return badRequest("name", "name is required")
	}
	switch model.CategoryType(r.CategoryType) {
	case model.CategoryTypeIncome, model.CategoryTypeExpense, model.CategoryTypeBoth:
	default:
		return badRequest("category_type", "must be income, expense, or both")
	}
	if r.Color != "" && (!strings.HasPrefix(r.Color, "#") || len(r.Color) != 7) {
		return badRequest("color", "must be a hex color like #RRGGBB")
	}
	return nil
}

func (s *Server) handleListCategories(c *fiber.Ctx) error {
	categories, err := s.store.ListCategories(userID(c))
	if err != nil {
		return err
	}
	return c.JSON(s.renderCategories(userID(c), categories))
}

func (s *Server) handleCategoriesByType(c *fiber.Ctx) error {
	categoryType := c.Query("type")
	if categoryType == "" {
		return badRequest("type", "type query parameter is required")
	}
	categories, err := s.store.ListCategoriesByType(userID(c), model.CategoryType(categoryType))
	if err != nil {
		return err
	}
	return c.JSON(s.renderCategories(userID(c), categories))
}

func (s *Server) handleCreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	category := model.Category{
		UserID:      userID(c),
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Type:        model.CategoryType(req.CategoryType),
		Active:      true,
	}
	if category.Color == "" {
		category.Color = "#6B7280"
	}
	if err := s.store.CreateCategory(&category); err != nil {
		return err
	}

	resp, err := s.renderCategory(userID(c), category)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (s *Server) handleGetCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	category, err := s.store.GetCategory(userID(c), int64(id))
	if err != nil {
		return err
	}
	resp, err := s.renderCategory(userID(c), category)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) handleUpdateCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	category, err := s.store.GetCategory(userID(c), int64(id))
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	category.Name = req.Name
	category.Description = req.Description
	category.Icon = req.Icon
	category.Type = model.CategoryType(req.CategoryType)
	if req.Color != "" {
		category.Color = req.Color
	}
	if req.IsActive != nil {
		category.Active = *req.IsActive
	}
	if err := s.store.UpdateCategory(&category); err != nil {
		return err
	}

	resp, err := s.renderCategory(userID(c), category)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) handleDeleteCategory(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badRequest("id", "invalid id")
	}
	if err := s.store.DeleteCategory(userID(c), int64(id)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) renderCategories(uid int64, categories []model.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		resp, err := s.renderCategory(uid, category)
		if err != nil {
			continue
		}
		out = append(out, *resp)
	}
	return out
}
