package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/gridnav/pkg/http/router/routerhelper"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const maxRequestBodyBytes = 64 << 20

type flowFieldAPI struct {
	flowFieldService FlowFieldService
	log              *zap.Logger
	validate         *validator.Validate
	trans            ut.Translator
	// wsRequestTimeout. how long an upgraded /ws/simulate connection may wait before sending its request.
	wsRequestTimeout time.Duration
}

func New(flowFieldService FlowFieldService, log *zap.Logger) *flowFieldAPI {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	viper.SetDefault("WS_REQUEST_TIMEOUT", "10s")

	return &flowFieldAPI{
		flowFieldService: flowFieldService,
		log:              log,
		validate:         validate,
		trans:            trans,
		wsRequestTimeout: viper.GetDuration("WS_REQUEST_TIMEOUT"),
	}
}

func (api *flowFieldAPI) Routes(group *helper.RouteGroup) {
	group.POST("/distanceField", api.distanceField)
	group.POST("/flowField", api.flowField)
}

func (api *flowFieldAPI) WebsocketRoutes(group *helper.RouteGroup) {
	group.GET("/simulate", api.simulate)
}

func (api *flowFieldAPI) decodeRequest(w http.ResponseWriter, r *http.Request, req interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(req); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return api.validateRequest(req)
}

// distanceField
//
//	@Summary		relax a terrain-weighted distance field from one or more seeds.
//	@Tags			fields
//	@Accept			json
//	@Produce		json
//	@Router			/distanceField [post]
//	@Success		200	{object}	distanceFieldResponse
//	@Failure		400	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
func (api *flowFieldAPI) distanceField(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request fieldRequest
	if err := api.decodeRequest(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	sol, err := api.flowFieldService.DistanceField(r.Context(), request.Width, request.Height, request.Terrain,
		request.seeds(), request.settings())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewDistanceFieldResponse(sol)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// flowField
//
//	@Summary		relax a distance field and extract its flow field, optionally tracing a path to the nearest seed.
//	@Tags			fields
//	@Accept			json
//	@Produce		json
//	@Router			/flowField [post]
//	@Success		200	{object}	flowFieldResponse
//	@Failure		400	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
func (api *flowFieldAPI) flowField(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request flowFieldRequest
	if err := api.decodeRequest(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	sol, err := api.flowFieldService.FlowField(r.Context(), request.Width, request.Height, request.Terrain,
		request.seeds(), request.settings())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := NewFlowFieldResponse(sol, nil, "", false)
	if request.Trace != nil {
		path, pathPolyline, reached, err := api.flowFieldService.TracePath(sol, request.Trace.X, request.Trace.Y,
			request.Trace.MaxSteps)
		if err != nil {
			api.getStatusCode(w, r, err)
			return
		}
		resp = NewFlowFieldResponse(sol, path, pathPolyline, reached)
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
