package patient

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/search", h.SearchPatients)
	api.GET("/patients/:id", h.GetPatient)
	api.POST("/patients", h.CreatePatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)

	api.GET("/hospitals", h.ListHospitals)
	api.GET("/hospitals/:id", h.GetHospital)
	api.POST("/hospitals", h.CreateHospital)
	api.DELETE("/hospitals/:id", h.DeleteHospital)

	api.GET("/visits", h.ListVisits)
	api.GET("/visits/:id", h.GetVisit)
	api.POST("/visits", h.CreateVisit)
	api.DELETE("/visits/:id", h.DeleteVisit)
}

// -- Patient Handlers --

func (h *Handler) ListPatients(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.ListPatients(c.Request().Context()))
}

func (h *Handler) SearchPatients(c echo.Context) error {
	patients, err := h.svc.SearchPatients(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, ok := h.svc.GetPatient(c.Request().Context(), id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var dto PatientDto
	if err := bind(c, &dto); err != nil {
		return err
	}
	p, err := h.svc.CreatePatient(c.Request().Context(), dto)
	if err != nil {
		return mapError(err)
	}
	c.Response().Header().Set(echo.HeaderLocation, locationOf(c, p.ID))
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var dto PatientDto
	if err := bind(c, &dto); err != nil {
		return err
	}
	ok, err := h.svc.UpdatePatient(c.Request().Context(), id, dto)
	if err != nil {
		return mapError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ok, err := h.svc.DeletePatient(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Hospital Handlers --

func (h *Handler) ListHospitals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.ListHospitals(c.Request().Context()))
}

func (h *Handler) GetHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	hosp, ok := h.svc.GetHospital(c.Request().Context(), id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) CreateHospital(c echo.Context) error {
	var dto HospitalDto
	if err := bind(c, &dto); err != nil {
		return err
	}
	hosp, err := h.svc.CreateHospital(c.Request().Context(), dto)
	if err != nil {
		return mapError(err)
	}
	c.Response().Header().Set(echo.HeaderLocation, locationOf(c, hosp.ID))
	return c.JSON(http.StatusCreated, hosp)
}

func (h *Handler) DeleteHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ok, err := h.svc.DeleteHospital(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Visit Handlers --

func (h *Handler) ListVisits(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.ListVisits(c.Request().Context()))
}

func (h *Handler) GetVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	v, ok := h.svc.GetVisit(c.Request().Context(), id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "visit not found")
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) CreateVisit(c echo.Context) error {
	var dto VisitDto
	if err := bind(c, &dto); err != nil {
		return err
	}
	v, err := h.svc.CreateVisit(c.Request().Context(), dto)
	if err != nil {
		return mapError(err)
	}
	c.Response().Header().Set(echo.HeaderLocation, locationOf(c, v.ID))
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) DeleteVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ok, err := h.svc.DeleteVisit(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "visit not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// bind decodes the request body into dst. A body cut off by the size
// limit keeps its 413; any other decode failure is a 400.
func bind(c echo.Context, dst interface{}) error {
	err := c.Bind(dst)
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
		return he
	}
	return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
}

// mapError turns a validation failure into a 400. Anything else is left
// for echo's error handler to report as a 500.
func mapError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
			"message": verr.Error(),
			"field":   verr.Field,
		})
	}
	return err
}

func locationOf(c echo.Context, id uuid.UUID) string {
	return strings.TrimSuffix(c.Request().URL.Path, "/") + "/" + id.String()
}
