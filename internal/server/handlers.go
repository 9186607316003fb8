package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	usecase "github.com/navi-mes/planfeed/pkg/planner/core/application/usecase"
	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/engine/assemble"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/configbinder"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/exception"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// TenantHeader carries the tenant when the query string does not.
const TenantHeader = "X-Tenant-ID"

// plannerInputQuery holds the optional /planner-input parameters.
type plannerInputQuery struct {
	TenantID    string `yaml:"tenant_id"`
	Variant     string `yaml:"variant"`
	Trigger     string `yaml:"trigger"`
	PresentTime string `yaml:"present_time"`
	// WorkOrders is a comma-separated allow-list replacing the configured scope for this request.
	WorkOrders string `yaml:"work_orders"`
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func firstValues(c *gin.Context) map[string]string {
	out := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// buildRequest turns the query parameters into a synthesis request.
func (h *Handler) buildRequest(c *gin.Context) (usecase.Request, error) {
	var q plannerInputQuery
	if err := configbinder.BindProperties(firstValues(c), &q); err != nil {
		return usecase.Request{}, err
	}

	req := usecase.Request{TenantID: q.TenantID, Trigger: q.Trigger}
	if req.TenantID == "" {
		req.TenantID = c.GetHeader(TenantHeader)
	}
	if q.Variant != "" {
		variant, err := model.ParseVariant(q.Variant)
		if err != nil {
			return usecase.Request{}, err
		}
		req.Variant = variant
	}
	if q.PresentTime != "" {
		present, err := time.Parse(time.RFC3339, q.PresentTime)
		if err != nil {
			return usecase.Request{}, fmt.Errorf("present_time must be RFC3339: %w", err)
		}
		present = present.UTC()
		req.PresentTime = &present
	}
	if q.WorkOrders != "" {
		policy := h.policy
		policy.LimitWorkOrders = true
		policy.WorkOrderAllowList = nil
		for _, wo := range strings.Split(q.WorkOrders, ",") {
			if wo = strings.TrimSpace(wo); wo != "" {
				policy.WorkOrderAllowList = append(policy.WorkOrderAllowList, wo)
			}
		}
		req.Policy = &policy
	}
	return req, nil
}

// PlannerInput synthesizes and returns the planning instance.
func (h *Handler) PlannerInput(c *gin.Context) {
	req, err := h.buildRequest(c)
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	inst, err := h.synthesizer.Synthesize(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, exception.ErrUnknownVariant) {
			abortWithDetail(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithDetail(c, http.StatusInternalServerError, err.Error())
		return
	}

	payload, err := assemble.Encode(inst)
	if err != nil {
		_ = c.Error(err)
		abortWithDetail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, payload)
}

// StoreSchedule stores the JSON body as the latest schedule.
func (h *Handler) StoreSchedule(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	h.saveSchedule(c, raw)
}

// UploadSchedule stores the multipart "file" field as the latest schedule.
func (h *Handler) UploadSchedule(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	f, err := header.Open()
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	h.saveSchedule(c, raw)
}

func (h *Handler) saveSchedule(c *gin.Context, raw []byte) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	doc, ok := decoded.(map[string]interface{})
	if !ok {
		abortWithDetail(c, http.StatusBadRequest, "Schedule payload must be JSON object")
		return
	}

	if err := h.schedules.Save(c.Request.Context(), doc); err != nil {
		_ = c.Error(err)
		if errors.Is(err, exception.ErrInvalidSchedule) {
			abortWithDetail(c, http.StatusBadRequest, exception.ExtractErrorMessage(err))
			return
		}
		abortWithDetail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LoadSchedule returns the latest stored schedule unchanged.
func (h *Handler) LoadSchedule(c *gin.Context) {
	raw, err := h.schedules.Load(c.Request.Context())
	if err != nil {
		if errors.Is(err, exception.ErrScheduleNotFound) {
			abortWithDetail(c, http.StatusNotFound, "No schedule uploaded yet")
			return
		}
		_ = c.Error(err)
		logger.Errorf("Failed to load schedule: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
