package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/lintang-b-s/gridnav/pkg/http/router/controllers"
	router_helper "github.com/lintang-b-s/gridnav/pkg/http/router/routerhelper"
	http_server "github.com/lintang-b-s/gridnav/pkg/http/server"
	"github.com/rs/cors"
	"go.uber.org/zap"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "net/http/pprof"
)

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

//	@title			gridnav API
//	@version		1.0
//	@description	terrain-weighted distance field and flow field server.

//	@contact.name	Lintang Birda Saputra
//	@contact.url	_
//	@contact.email	lintang.birda.saputra@mail.ugm.ac.id

//	@license.name	BSD License
//	@license.url	https://opensource.org/license/bsd-2-clause

// @host		localhost
// @BasePath	/api
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	log *zap.Logger,

	useRateLimit bool,
	flowFieldService controllers.FlowFieldService,
) error {
	log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(useRateLimit, flowFieldService), config)
	log.Info(fmt.Sprintf("API run on port %d", config.Port))

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		log.Info("HTTP server stopped", zap.Error(err))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Context canceled, shutting down server")
		_ = srv.Shutdown(context.Background())
		return nil
	}
}

// Handler. router with the full middleware chain, the REST api under /api and the websocket stream under /ws.
func (api *API) Handler(useRateLimit bool, flowFieldService controllers.FlowFieldService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	router.GET("/doc/*any", swaggerHandler)

	router.Handler(http.MethodGet, "/debug/pprof/*item", http.DefaultServeMux)

	fieldRoutes := controllers.New(flowFieldService, api.log)
	fieldRoutes.Routes(router_helper.NewRouteGroup(router, "/api"))
	fieldRoutes.WebsocketRoutes(router_helper.NewRouteGroup(router, "/ws"))

	var mwChain []alice.Constructor
	if useRateLimit {
		mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
			RealIP, Heartbeat("healthz"), Logger(api.log), Labels, Limit)
	} else {
		mwChain = append(mwChain, corsHandler.Handler, EnforceJSONHandler, api.recoverPanic,
			RealIP, Heartbeat("healthz"), Logger(api.log), Labels)
	}
	return alice.New(mwChain...).Then(router)
}

func swaggerHandler(res http.ResponseWriter, req *http.Request, p httprouter.Params) {
	httpSwagger.WrapHandler(res, req)
}
