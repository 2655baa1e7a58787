package handlers

import (
	"net/http"

	"github.com/fleetscope/fleetscope/internal/api/dto"
	"github.com/fleetscope/fleetscope/internal/domain/inventory"
	"github.com/fleetscope/fleetscope/internal/pkg/errors"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/pkg/utils"
)

type InventoryHandler struct {
	service inventory.Service
	logger  *logger.Logger
}

func NewInventoryHandler(service inventory.Service, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{service: service, logger: log}
}

// queryFilter parses the optional account and region filters. An empty
// parameter is treated as absent.
func queryFilter(r *http.Request) inventory.Filter {
	var f inventory.Filter
	if v := r.URL.Query().Get("account_id"); v != "" {
		f.AccountID = &v
	}
	if v := r.URL.Query().Get("region"); v != "" {
		f.Region = &v
	}
	return f
}

// Instances returns aggregated EC2 instances
// @Summary List instances across the fleet
// @Tags Inventory
// @Produce json
// @Param account_id query string false "AWS account id filter"
// @Param region query string false "Region filter"
// @Success 200 {object} dto.InventoryResponse "Aggregated instances"
// @Router /inventory/instances [get]
func (h *InventoryHandler) Instances(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListInstances(r.Context(), queryFilter(r))
	if err != nil {
		h.writeError(w, err, "Failed to aggregate instances")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.InventoryResponse{Count: len(records), Items: records})
}

// Databases returns aggregated RDS instances
// @Summary List databases across the fleet
// @Tags Inventory
// @Produce json
// @Param account_id query string false "AWS account id filter"
// @Param region query string false "Region filter"
// @Success 200 {object} dto.InventoryResponse "Aggregated databases"
// @Router /inventory/databases [get]
func (h *InventoryHandler) Databases(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListDBInstances(r.Context(), queryFilter(r))
	if err != nil {
		h.writeError(w, err, "Failed to aggregate databases")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.InventoryResponse{Count: len(records), Items: records})
}

// Buckets returns aggregated S3 buckets
// @Summary List buckets across the fleet
// @Tags Inventory
// @Produce json
// @Param account_id query string false "AWS account id filter"
// @Success 200 {object} dto.InventoryResponse "Aggregated buckets"
// @Router /inventory/buckets [get]
func (h *InventoryHandler) Buckets(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListBuckets(r.Context(), queryFilter(r))
	if err != nil {
		h.writeError(w, err, "Failed to aggregate buckets")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.InventoryResponse{Count: len(records), Items: records})
}

// Networks returns aggregated VPCs
// @Summary List networks across the fleet
// @Tags Inventory
// @Produce json
// @Param account_id query string false "AWS account id filter"
// @Param region query string false "Region filter"
// @Success 200 {object} dto.InventoryResponse "Aggregated networks"
// @Router /inventory/networks [get]
func (h *InventoryHandler) Networks(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListVPCs(r.Context(), queryFilter(r))
	if err != nil {
		h.writeError(w, err, "Failed to aggregate networks")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.InventoryResponse{Count: len(records), Items: records})
}

func (h *InventoryHandler) writeError(w http.ResponseWriter, err error, logMsg string) {
	h.logger.ErrorWithErr(err, logMsg)
	if appErr, ok := err.(*errors.AppError); ok {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteError(w, errors.Internal(logMsg, err))
}
