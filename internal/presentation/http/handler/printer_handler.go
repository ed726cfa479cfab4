package handler

import (
	"github.com/gin-gonic/gin"

	"restopos/internal/application/service"
	"restopos/internal/domain/entity"
	"restopos/internal/presentation/http/dto/request"
	"restopos/internal/presentation/http/dto/response"
)

// PrinterHandler handles print dispatch HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
	orderService   *service.OrderService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService, orderService *service.OrderService) *PrinterHandler {
	return &PrinterHandler{
		printerService: printerService,
		orderService:   orderService,
	}
}

// Status handles reporting the spooler's available printers
func (h *PrinterHandler) Status(c *gin.Context) {
	status := h.printerService.Status(c.Request.Context())
	response.OK(c, "Printer status retrieved successfully", status)
}

// Reprint handles re-dispatching an invoice from the session history
func (h *PrinterHandler) Reprint(c *gin.Context) {
	var req request.ReprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inv := h.findInvoice(req.Number)
	if inv == nil {
		response.ErrorWithCode(c, 404, "Invoice not found in session history")
		return
	}

	outcome, err := h.printerService.Dispatch(c.Request.Context(), inv, req.Copies)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice dispatched", outcome)
}

// Export handles exporting an invoice from the session history as a PDF
func (h *PrinterHandler) Export(c *gin.Context) {
	var req request.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	inv := h.findInvoice(req.Number)
	if inv == nil {
		response.ErrorWithCode(c, 404, "Invoice not found in session history")
		return
	}

	outcome, err := h.printerService.Export(c.Request.Context(), inv)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice exported", outcome)
}

// Preview handles rendering an invoice's fixed-width text form
func (h *PrinterHandler) Preview(c *gin.Context) {
	inv := h.findInvoice(c.Param("number"))
	if inv == nil {
		response.ErrorWithCode(c, 404, "Invoice not found in session history")
		return
	}

	c.String(200, h.printerService.RenderText(inv))
}

func (h *PrinterHandler) findInvoice(number string) *entity.Invoice {
	for _, inv := range h.orderService.History() {
		if inv.Number == number {
			return inv
		}
	}
	return nil
}
