package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vaccine-accounts/internal/application"
	"github.com/oksasatya/vaccine-accounts/internal/domain/entity"
	"github.com/oksasatya/vaccine-accounts/pkg/response"
)

type VaccineHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewVaccineHandler(svc *application.Service, logger *logrus.Logger) *VaccineHandler {
	return &VaccineHandler{Svc: svc, Logger: logger}
}

type vaccinationRequest struct {
	VaccineName       *string `json:"vaccine_name"`
	FirstDozeTaken    *bool   `json:"first_doze_taken"`
	FirstDozeDate     *string `json:"first_doze_date" binding:"omitempty,isodate"`
	SecondDozeTaken   *bool   `json:"second_doze_taken"`
	SecondDozeDate    *string `json:"second_doze_date" binding:"omitempty,isodate"`
	IsFullyVaccinated *bool   `json:"is_fully_vaccinated"`
}

func (r vaccinationRequest) toEntity() (entity.Vaccination, error) {
	v := entity.Vaccination{
		VaccineName:       r.VaccineName,
		FirstDozeTaken:    r.FirstDozeTaken,
		SecondDozeTaken:   r.SecondDozeTaken,
		IsFullyVaccinated: r.IsFullyVaccinated,
	}
	var err error
	if v.FirstDozeDate, err = parseDate(r.FirstDozeDate); err != nil {
		return v, err
	}
	if v.SecondDozeDate, err = parseDate(r.SecondDozeDate); err != nil {
		return v, err
	}
	return v, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(application.DateLayout, *s)
	if err != nil {
		return nil, &application.ParamError{Message: "dates must be YYYY-MM-DD"}
	}
	return &t, nil
}

// Modify PUT /vaccines/:id
func (h *VaccineHandler) Modify(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, err := accountID(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	var req vaccinationRequest
	if err := bindBody(c, &req); err != nil {
		invalidPayload(c, err)
		return
	}
	vacc, err := req.toEntity()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	msg, err := h.Svc.Modify(c.Request.Context(), who, id, application.ModifyInput{Vaccination: vacc})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success[any](c, http.StatusOK, nil, msg, nil))
}

// Get GET /vaccines/:id returns the account including vaccination data.
func (h *VaccineHandler) Get(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	id, err := accountID(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	user, err := h.Svc.FetchObject(c.Request.Context(), who, id, true)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, user, "", nil))
}

// List GET /vaccines?filter=<col>&value=<v> | ?filter=all | ?auth=true (admin only)
func (h *VaccineHandler) List(c *gin.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	ff := application.FetchFilter{Filter: c.Query("filter"), Value: c.Query("value")}
	if raw, set := c.GetQuery("auth"); set {
		auth, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(c, h.Logger, &application.ParamError{Message: "auth must be a boolean"})
			return
		}
		ff.Auth = auth
	}
	users, err := h.Svc.FetchAccounts(c.Request.Context(), who, ff)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, users, "", nil))
}
