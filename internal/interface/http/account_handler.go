package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vaccine-accounts/internal/application"
	"github.com/oksasatya/vaccine-accounts/pkg/response"
)

type AccountHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.Service, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Age         int    `json:"age" binding:"min=0"`
	PhoneNumber string `json:"phone_number"`
	AccountType string `json:"account_type"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type modifyAccountRequest struct {
	UpdatedEmail *string `json:"updated_email"`
	Password     *string `json:"password"`
	Name         *string `json:"name"`
	Gender       *string `json:"gender"`
	Age          *int    `json:"age" binding:"omitempty,min=0"`
	PhoneNumber  *string `json:"phone_number"`
	AccountType  *string `json:"account_type"`
}

// Register POST /account/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := bindBody(c, &req); err != nil {
		invalidPayload(c, err)
		return
	}
	msg, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Gender:      req.Gender,
		Age:         req.Age,
		PhoneNumber: req.PhoneNumber,
		AccountType: req.AccountType,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success[any](c, http.StatusOK, nil, msg, nil))
}

// Login POST /account/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, res, "authentication successful", nil))
}

// Modify PUT /account/:id
func (h *AccountHandler) Modify(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, err := accountID(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	var req modifyAccountRequest
	if err := bindBody(c, &req); err != nil {
		invalidPayload(c, err)
		return
	}
	msg, err := h.Svc.Modify(c.Request.Context(), who, id, application.ModifyInput{
		UpdatedEmail: req.UpdatedEmail,
		Password:     req.Password,
		Name:         req.Name,
		Gender:       req.Gender,
		Age:          req.Age,
		PhoneNumber:  req.PhoneNumber,
		AccountType:  req.AccountType,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success[any](c, http.StatusOK, nil, msg, nil))
}

// Delete DELETE /account/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, err := accountID(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	msg, err := h.Svc.Delete(c.Request.Context(), who, id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success[any](c, http.StatusOK, nil, msg, nil))
}

// Get GET /account/:id returns the account without vaccination data.
func (h *AccountHandler) Get(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, err := accountID(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	user, err := h.Svc.FetchObject(c.Request.Context(), who, id, false)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, user, "", nil))
}
