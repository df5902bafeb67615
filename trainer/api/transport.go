package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/absmach/mltorrent/pkg/api"
	"github.com/absmach/mltorrent/pkg/stream"
	"github.com/absmach/mltorrent/trainer"
	"github.com/absmach/supermq"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "trainer"

// MakeHandler returns the HTTP handler of the training API. The live round
// feed at /training/stream is mounted only when hub is non-nil.
func MakeHandler(svc trainer.Service, hub *stream.Hub, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Route("/training", func(r chi.Router) {
		r.Post("/start", otelhttp.NewHandler(kithttp.NewServer(
			startEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "start-training").ServeHTTP)
		r.Post("/stop", otelhttp.NewHandler(kithttp.NewServer(
			stopEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "stop-training").ServeHTTP)
		r.Post("/reset", otelhttp.NewHandler(kithttp.NewServer(
			resetEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "reset-training").ServeHTTP)
		r.Put("/max-epochs", otelhttp.NewHandler(kithttp.NewServer(
			setMaxEpochsEndpoint(svc),
			decodeMaxEpochsReq,
			api.EncodeResponse,
			opts...,
		), "set-max-epochs").ServeHTTP)
		r.Get("/status", otelhttp.NewHandler(kithttp.NewServer(
			statusEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "training-status").ServeHTTP)
		r.Get("/peers", otelhttp.NewHandler(kithttp.NewServer(
			peersEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "list-peers").ServeHTTP)
		r.Get("/events", otelhttp.NewHandler(kithttp.NewServer(
			eventsEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "list-events").ServeHTTP)
		r.Get("/history", otelhttp.NewHandler(kithttp.NewServer(
			historyEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "training-history").ServeHTTP)
		r.Get("/stats", otelhttp.NewHandler(kithttp.NewServer(
			statsEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "training-stats").ServeHTTP)
		if hub != nil {
			r.Get("/stream", hub.Handler())
		}
	})

	mux.Route("/runs", func(r chi.Router) {
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listRunsEndpoint(svc),
			decodeListEntityReq,
			api.EncodeResponse,
			opts...,
		), "list-runs").ServeHTTP)
		r.Get("/{runID}", otelhttp.NewHandler(kithttp.NewServer(
			getRunEndpoint(svc),
			decodeEntityReq("runID"),
			api.EncodeResponse,
			opts...,
		), "get-run").ServeHTTP)
	})

	mux.Get("/health", supermq.Health(serviceName, instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeEmptyReq(_ context.Context, _ *http.Request) (any, error) {
	return emptyReq{}, nil
}

func decodeMaxEpochsReq(_ context.Context, r *http.Request) (any, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Join(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}

	var req maxEpochsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Join(err, apiutil.ErrValidation)
	}

	return req, nil
}

func decodeEntityReq(key string) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (any, error) {
		return entityReq{
			id: chi.URLParam(r, key),
		}, nil
	}
}

func decodeListEntityReq(_ context.Context, r *http.Request) (any, error) {
	o, err := apiutil.ReadNumQuery[uint64](r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	l, err := apiutil.ReadNumQuery[uint64](r, api.LimitKey, api.DefLimit)
	if err != nil {
		return nil, errors.Join(apiutil.ErrValidation, err)
	}

	return listEntityReq{
		offset: o,
		limit:  l,
	}, nil
}
