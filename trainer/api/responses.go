package api

import (
	"net/http"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/run"
	"github.com/absmach/mltorrent/trainer"
	"github.com/absmach/supermq"
)

var (
	_ supermq.Response = (*statusResponse)(nil)
	_ supermq.Response = (*maxEpochsResponse)(nil)
	_ supermq.Response = (*peersResponse)(nil)
	_ supermq.Response = (*eventsResponse)(nil)
	_ supermq.Response = (*historyResponse)(nil)
	_ supermq.Response = (*statsResponse)(nil)
	_ supermq.Response = (*runResponse)(nil)
	_ supermq.Response = (*listRunsResponse)(nil)
)

type statusResponse struct {
	trainer.Status
}

func (s statusResponse) Code() int {
	return http.StatusOK
}

func (s statusResponse) Headers() map[string]string {
	return map[string]string{}
}

func (s statusResponse) Empty() bool {
	return false
}

type maxEpochsResponse struct {
	MaxEpochs int `json:"max_epochs"`
}

func (m maxEpochsResponse) Code() int {
	return http.StatusOK
}

func (m maxEpochsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (m maxEpochsResponse) Empty() bool {
	return false
}

type peersResponse struct {
	Total int             `json:"total"`
	Peers []peer.Snapshot `json:"peers"`
}

func (p peersResponse) Code() int {
	return http.StatusOK
}

func (p peersResponse) Headers() map[string]string {
	return map[string]string{}
}

func (p peersResponse) Empty() bool {
	return false
}

type eventsResponse struct {
	Events []network.Event `json:"events"`
}

func (e eventsResponse) Code() int {
	return http.StatusOK
}

func (e eventsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (e eventsResponse) Empty() bool {
	return false
}

type historyResponse struct {
	Records []history.Record `json:"records"`
}

func (h historyResponse) Code() int {
	return http.StatusOK
}

func (h historyResponse) Headers() map[string]string {
	return map[string]string{}
}

func (h historyResponse) Empty() bool {
	return false
}

type statsResponse struct {
	history.Stats
}

func (s statsResponse) Code() int {
	return http.StatusOK
}

func (s statsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (s statsResponse) Empty() bool {
	return false
}

type runResponse struct {
	run.Run
}

func (r runResponse) Code() int {
	return http.StatusOK
}

func (r runResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r runResponse) Empty() bool {
	return false
}

type listRunsResponse struct {
	run.RunPage
}

func (l listRunsResponse) Code() int {
	return http.StatusOK
}

func (l listRunsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listRunsResponse) Empty() bool {
	return false
}
