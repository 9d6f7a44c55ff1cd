package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tickpulse/internal/domain/dto"
	"github.com/guttosm/tickpulse/internal/service"
)

// Handler serves the analytical queries over the loaded trade dataset.
type Handler struct {
	svc      service.QueryService
	defaultK int
}

// NewHandler wires a query service. defaultK is used when a request omits k.
func NewHandler(svc service.QueryService, defaultK int) *Handler {
	return &Handler{svc: svc, defaultK: defaultK}
}

// GetTopK godoc
// @Summary      Most traded instruments
// @Description  Ranks instruments by summed trade size, descending, ties by id
// @Tags         analytics
// @Produce      json
// @Param        k    query     int  false  "Number of instruments" example(20)
// @Success      200  {object}  dto.TopKResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/top [get]
func (h *Handler) GetTopK(c *gin.Context) {
	k, err := h.parseK(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid k", err))
		return
	}

	rankings, err := h.svc.TopK(c.Request.Context(), k)
	if err != nil {
		h.fail(c, "failed to rank instruments", err)
		return
	}

	items := make([]dto.RankingItem, 0, len(rankings))
	for _, r := range rankings {
		items = append(items, dto.RankingItem{ID: r.ID, TotalSize: r.TotalSize})
	}
	c.JSON(http.StatusOK, dto.TopKResponse{K: k, Stocks: items})
}

// GetVWAP godoc
// @Summary      Volume weighted average price
// @Description  VWAP over the Top-K volumes, or over the listed ids when ids is given
// @Tags         analytics
// @Produce      json
// @Param        k    query     int     false  "Rank size when ids is empty" example(20)
// @Param        ids  query     string  false  "Comma separated identities" example(AAPL.,MSFT.)
// @Success      200  {object}  dto.VWAPResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/vwap [get]
func (h *Handler) GetVWAP(c *gin.Context) {
	ids := splitIDs(c.Query("ids"))

	// k only selects the ranking when no ids are listed.
	k := h.defaultK
	if len(ids) == 0 {
		var err error
		if k, err = h.parseK(c); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid k", err))
			return
		}
	}

	rep, err := h.svc.VWAP(c.Request.Context(), k, ids)
	if err != nil {
		h.fail(c, "failed to compute vwap", err)
		return
	}
	c.JSON(http.StatusOK, dto.VWAPResponse{Prices: rep.Prices, Missing: rep.Missing})
}

// GetInterval godoc
// @Summary      Instruments traded in a minute interval
// @Description  Distinct identities with at least one trade in [start, end], sorted
// @Tags         analytics
// @Produce      json
// @Param        start  query     int  true  "First minute, inclusive" example(0)
// @Param        end    query     int  true  "Last minute, inclusive" example(30)
// @Success      200    {object}  dto.IntervalResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/v1/interval [get]
func (h *Handler) GetInterval(c *gin.Context) {
	start, err := strconv.Atoi(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("start must be an integer minute", err))
		return
	}
	end, err := strconv.Atoi(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("end must be an integer minute", err))
		return
	}

	ids, err := h.svc.StocksInInterval(c.Request.Context(), start, end)
	if err != nil {
		h.fail(c, "failed to query interval", err)
		return
	}
	c.JSON(http.StatusOK, dto.IntervalResponse{Start: start, End: end, Count: len(ids), Stocks: ids})
}

func (h *Handler) parseK(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("k"))
	if raw == "" {
		return h.defaultK, nil
	}
	return strconv.Atoi(raw)
}

// fail maps caller mistakes to 400 and everything else to 500.
func (h *Handler) fail(c *gin.Context, msg string, err error) {
	if errors.Is(err, service.ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(msg, err))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(msg, err))
}

func splitIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
