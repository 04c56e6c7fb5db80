package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"gw-rate-converter/internal/api/middlew"
	"gw-rate-converter/internal/custom_err"
	"gw-rate-converter/internal/models"
	"gw-rate-converter/internal/service"
	"gw-rate-converter/internal/state"
	"gw-rate-converter/pkg/response"
)

type ConversionHandler struct {
	service service.Conversion
}

func NewConversionHandler(service service.Conversion) *ConversionHandler {
	return &ConversionHandler{
		service: service,
	}
}

// GetPairs godoc
// @Summary      Список валютных пар
// @Description  Возвращает пары, для которых запрашиваются котировки
// @Tags         conversion
// @Produce      json
// @Success      200 {object} models.PairsResponse
// @Router       /pairs [get]
func (h *ConversionHandler) GetPairs(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())

	pairs := h.service.Pairs()
	codes := make([]string, 0, len(pairs))
	for _, p := range pairs {
		codes = append(codes, p.Code())
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.PairsResponse{Pairs: codes})
}

// GetConversion godoc
// @Summary      Текущее состояние конвертации
// @Description  Возвращает последний зафиксированный снимок
// @Tags         conversion
// @Produce      json
// @Success      200 {object} models.ConversionStateResponse
// @Router       /conversion [get]
func (h *ConversionHandler) GetConversion(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())
	response.WriteJSONSuccess(w, log, http.StatusOK, ToStateResponse(h.service.Snapshot()))
}

// Convert godoc
// @Summary      Конвертировать сумму
// @Description  Запрашивает котировки для всех пар и конвертирует сумму
// @Tags         conversion
// @Accept       json
// @Produce      json
// @Param        request body models.ConvertRequest true "Сумма и пары"
// @Success      200 {object} models.ConversionStateResponse
// @Failure      400 {object} models.ConversionStateResponse
// @Failure      409 {object} response.ErrorResponse
// @Failure      502 {object} models.ConversionStateResponse
// @Failure      504 {object} models.ConversionStateResponse
// @Router       /conversion [post]
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Convert"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	pairs, err := h.service.ResolvePairs(req.Pairs)
	if err != nil {
		log.Warn("unknown pair", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, custom_err.Code(err), custom_err.Message(err))
		return
	}

	gen := h.service.Trigger(r.Context(), req.Amount, pairs)

	snap := h.service.Snapshot()
	if snap.Generation != gen {
		log.Info("conversion superseded",
			slog.String("op", op),
			slog.Uint64("generation", gen),
			slog.Uint64("current", snap.Generation))
		response.WriteJSONError(w, log, http.StatusConflict, "superseded", "A newer conversion replaced this one")
		return
	}

	response.WriteJSONSuccess(w, log, statusFor(snap.Err), ToStateResponse(snap))
}

// ClearConversion godoc
// @Summary      Сбросить конвертацию
// @Tags         conversion
// @Produce      json
// @Success      200 {object} models.ConversionStateResponse
// @Router       /conversion [delete]
func (h *ConversionHandler) ClearConversion(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())
	response.WriteJSONSuccess(w, log, http.StatusOK, ToStateResponse(h.service.Clear()))
}

func statusFor(err error) int {
	switch custom_err.Code(err) {
	case "":
		return http.StatusOK
	case "invalid_input":
		return http.StatusBadRequest
	case "timeout":
		return http.StatusGatewayTimeout
	case "internal_error":
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// ToStateResponse renders a snapshot for the API, results ordered by pair code.
func ToStateResponse(snap state.Snapshot) models.ConversionStateResponse {
	results := make([]models.ConversionResultResponse, 0, len(snap.Results))
	for _, res := range snap.Results {
		results = append(results, models.ConversionResultResponse{
			Pair:            res.Pair.Code(),
			ConvertedAmount: res.Display(),
			Rate:            res.Rate.StringFixed(2),
			RateDisplay:     res.RateDisplay(),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Pair < results[j].Pair })

	return models.ConversionStateResponse{
		InputText:    snap.InputText,
		Results:      results,
		Error:        custom_err.Code(snap.Err),
		ErrorMessage: custom_err.Message(snap.Err),
		IsLoading:    snap.IsLoading,
		Generation:   snap.Generation,
		UpdatedAt:    snap.UpdatedAt,
	}
}
