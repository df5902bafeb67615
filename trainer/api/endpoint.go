package api

import (
	"context"
	"errors"

	pkgerrors "github.com/absmach/mltorrent/pkg/errors"
	"github.com/absmach/mltorrent/trainer"
	apiutil "github.com/absmach/supermq/api/http/util"
	"github.com/go-kit/kit/endpoint"
)

type lifecycleFunc func(svc trainer.Service, ctx context.Context) (trainer.Status, error)

func lifecycleEndpoint(svc trainer.Service, fn lifecycleFunc) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(emptyReq)
		if !ok {
			return statusResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return statusResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		st, err := fn(svc, ctx)
		if err != nil {
			return statusResponse{}, err
		}

		return statusResponse{
			Status: st,
		}, nil
	}
}

func startEndpoint(svc trainer.Service) endpoint.Endpoint {
	return lifecycleEndpoint(svc, trainer.Service.Start)
}

func stopEndpoint(svc trainer.Service) endpoint.Endpoint {
	return lifecycleEndpoint(svc, trainer.Service.Stop)
}

func resetEndpoint(svc trainer.Service) endpoint.Endpoint {
	return lifecycleEndpoint(svc, trainer.Service.Reset)
}

func statusEndpoint(svc trainer.Service) endpoint.Endpoint {
	return lifecycleEndpoint(svc, trainer.Service.Status)
}

func setMaxEpochsEndpoint(svc trainer.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(maxEpochsReq)
		if !ok {
			return maxEpochsResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return maxEpochsResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		applied, err := svc.SetMaxEpochs(ctx, *req.MaxEpochs)
		if err != nil {
			return maxEpochsResponse{}, err
		}

		return maxEpochsResponse{
			MaxEpochs: applied,
		}, nil
	}
}

func peersEndpoint(svc trainer.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return peersResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		peers, err := svc.Peers(ctx)
		if err != nil {
			return peersResponse{}, err
		}

		return peersResponse{
			Total: len(peers),
			Peers: peers,
		}, nil
	}
}

func eventsEndpoint(svc trainer.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return eventsResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		events, err := svc.Events(ctx)
		if err != nil {
			return eventsResponse{}, err
		}

		return eventsResponse{
			Events: events,
		}, nil
	}
}

func historyEndpoint(svc trainer.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return historyResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		records, err := svc.History(ctx)
		if err != nil {
			return historyResponse{}, err
		}

		return historyResponse{
			Records: records,
		}, nil
	}
}

func statsEndpoint(svc trainer.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return statsResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}

		stats, err := svc.Stats(ctx)
		if err != nil {
			return statsResponse{}, err
		}

		return statsResponse{
			Stats: stats,
		}, nil
	}
}

func listRunsEndpoint(svc trainer.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listRunsResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return listRunsResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		page, err := svc.ListRuns(ctx, req.offset, req.limit)
		if err != nil {
			return listRunsResponse{}, err
		}

		return listRunsResponse{
			RunPage: page,
		}, nil
	}
}

func getRunEndpoint(svc trainer.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return runResponse{}, errors.Join(apiutil.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return runResponse{}, errors.Join(apiutil.ErrValidation, err)
		}

		r, err := svc.GetRun(ctx, req.id)
		if err != nil {
			return runResponse{}, err
		}

		return runResponse{
			Run: r,
		}, nil
	}
}
