package api

import (
	"errors"

	"github.com/absmach/mltorrent/pkg/api"
	apiutil "github.com/absmach/supermq/api/http/util"
)

var errMissingMaxEpochs = errors.New("missing max_epochs")

type emptyReq struct{}

func (e *emptyReq) validate() error {
	return nil
}

type maxEpochsReq struct {
	MaxEpochs *int `json:"max_epochs"`
}

func (m *maxEpochsReq) validate() error {
	if m.MaxEpochs == nil {
		return errMissingMaxEpochs
	}

	return nil
}

type entityReq struct {
	id string
}

func (e *entityReq) validate() error {
	if e.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type listEntityReq struct {
	offset, limit uint64
}

func (e *listEntityReq) validate() error {
	if e.limit > api.MaxLimitSize {
		return api.ErrLimitSize
	}

	return nil
}
