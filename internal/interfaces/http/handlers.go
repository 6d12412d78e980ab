package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expenseflow/expenseflow/internal/apperr"
	"github.com/expenseflow/expenseflow/internal/application/service"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID                int64  `json:"id"`
	SubmitterID       int64  `json:"submitter_id"`
	Amount            string `json:"amount"`
	CurrencyCode      string `json:"currency_code"`
	ConvertedAmount   string `json:"converted_amount"`
	Converted         bool   `json:"converted"`
	Category          string `json:"category"`
	Description       string `json:"description,omitempty"`
	ExpenseDate       string `json:"expense_date"`
	Status            string `json:"status"`
	CurrentApproverID *int64 `json:"current_approver_id,omitempty"`
	SubmittedAt       string `json:"submitted_at"`
}

// DecisionRequest represents the body of a decision call
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
	Comment  string `json:"comment"`
}

// AssignManagerRequest represents the body of a manager assignment
type AssignManagerRequest struct {
	ManagerID *int64 `json:"manager_id"`
}

// statusFor maps application errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrExternal):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes an error response with the mapped status code. Internal errors
// keep their details out of the response body.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "request_id", c.GetString(ctxRequestID))
		message = "internal error"
	}
	c.JSON(status, Response{Success: false, Error: message})
}

func (h *Handlers) ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	h.ok(c, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// Signup handles POST /api/v1/auth/signup
func (h *Handlers) Signup(c *gin.Context) {
	var input service.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	result, err := h.services.Company.Signup(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, result)
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, result)
}

// SubmitExpense handles POST /api/v1/expenses
func (h *Handlers) SubmitExpense(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	var input service.SubmitExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	expense, err := h.services.Expense.Submit(c.Request.Context(), principal, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, toExpenseResponse(expense))
}

// ListMyExpenses handles GET /api/v1/expenses
func (h *Handlers) ListMyExpenses(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	expenses, err := h.services.Expense.MyExpenses(c.Request.Context(), principal)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, toExpenseResponses(expenses))
}

// ListPendingApprovals handles GET /api/v1/approvals/pending
func (h *Handlers) ListPendingApprovals(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	expenses, err := h.services.Expense.PendingFor(c.Request.Context(), principal)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, toExpenseResponses(expenses))
}

// DecideExpense handles POST /api/v1/expenses/:id/decision
func (h *Handlers) DecideExpense(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	expense, err := h.services.Expense.Decide(c.Request.Context(), principal, id, req.Decision, req.Comment)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, toExpenseResponse(expense))
}

// GetApprovalTrail handles GET /api/v1/expenses/:id/approvals
func (h *Handlers) GetApprovalTrail(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	trail, err := h.services.Expense.Trail(c.Request.Context(), principal, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, trail)
}

// ExportStatement handles GET /api/v1/expenses/export
func (h *Handlers) ExportStatement(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	workbook, err := h.services.Report.Statement(c.Request.Context(), principal)
	if err != nil {
		h.fail(c, err)
		return
	}

	filename := fmt.Sprintf("expenses-%d-%s.xlsx", principal.UserID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream statement", "error", err, "request_id", c.GetString(ctxRequestID))
	}
}

// CreateUser handles POST /api/v1/users
func (h *Handlers) CreateUser(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	user, err := h.services.User.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, user)
}

// ListUsers handles GET /api/v1/users
func (h *Handlers) ListUsers(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	users, err := h.services.User.List(c.Request.Context(), principal)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, users)
}

// AssignManager handles PUT /api/v1/users/:id/manager
func (h *Handlers) AssignManager(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	if err := h.services.User.AssignManager(c.Request.Context(), principal, id, req.ManagerID); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, gin.H{"user_id": id, "manager_id": req.ManagerID})
}

// CreateRule handles POST /api/v1/rules
func (h *Handlers) CreateRule(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	var input service.CreateRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	rule, err := h.services.Rule.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, rule)
}

// ListRules handles GET /api/v1/rules
func (h *Handlers) ListRules(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	rules, err := h.services.Rule.List(c.Request.Context(), principal)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, rules)
}

// DeleteRule handles DELETE /api/v1/rules/:id
func (h *Handlers) DeleteRule(c *gin.Context) {
	principal, ok := principalFrom(c)
	if !ok {
		h.fail(c, apperr.ErrUnauthorized)
		return
	}

	id, err := pathID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.services.Rule.Delete(c.Request.Context(), principal, id); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, gin.H{"rule_id": id})
}

func pathID(c *gin.Context) (int64, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", apperr.ErrValidation, idStr)
	}
	return id, nil
}

// toExpenseResponse converts a domain entity to the API response shape
func toExpenseResponse(expense *entity.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:                expense.ID,
		SubmitterID:       expense.SubmitterID,
		Amount:            expense.Amount.StringFixed(2),
		CurrencyCode:      expense.CurrencyCode,
		ConvertedAmount:   expense.ConvertedAmount.StringFixed(2),
		Converted:         expense.Converted,
		Category:          expense.Category,
		Description:       expense.Description,
		ExpenseDate:       expense.ExpenseDate.Format("2006-01-02"),
		Status:            expense.Status,
		CurrentApproverID: expense.CurrentApproverID,
		SubmittedAt:       expense.SubmittedAt.Format(time.RFC3339),
	}
}

func toExpenseResponses(expenses []*entity.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return out
}
