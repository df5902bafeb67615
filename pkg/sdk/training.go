package sdk

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
)

const trainingEndpoint = "/training"

type Totals struct {
	DataSharedKB   int `json:"data_shared_kb"`
	ModelFragments int `json:"model_fragments"`
}

type Status struct {
	State          string    `json:"state"`
	RunID          string    `json:"run_id"`
	Seed           uint64    `json:"seed"`
	Epoch          int       `json:"epoch"`
	MaxEpochs      int       `json:"max_epochs"`
	GlobalAccuracy float64   `json:"global_accuracy"`
	GlobalLoss     float64   `json:"global_loss"`
	ActivePeers    int       `json:"active_peers"`
	TotalPeers     int       `json:"total_peers"`
	Totals         Totals    `json:"totals"`
	StartedAt      time.Time `json:"started_at,omitzero"`
	FinishedAt     time.Time `json:"finished_at,omitzero"`
}

func (sdk *mltSDK) lifecycle(action string) (Status, error) {
	url := sdk.trainerURL + trainingEndpoint + "/" + action

	body, err := sdk.processRequest(http.MethodPost, url, nil, http.StatusOK)
	if err != nil {
		return Status{}, err
	}

	var st Status
	if err := json.Unmarshal(body, &st); err != nil {
		return Status{}, err
	}

	return st, nil
}

func (sdk *mltSDK) StartTraining() (Status, error) {
	return sdk.lifecycle("start")
}

func (sdk *mltSDK) StopTraining() (Status, error) {
	return sdk.lifecycle("stop")
}

func (sdk *mltSDK) ResetTraining() (Status, error) {
	return sdk.lifecycle("reset")
}

func (sdk *mltSDK) TrainingStatus() (Status, error) {
	var st Status
	if err := sdk.getJSON(sdk.trainerURL+trainingEndpoint+"/status", &st); err != nil {
		return Status{}, err
	}

	return st, nil
}

func (sdk *mltSDK) SetMaxEpochs(n int) (int, error) {
	data, err := json.Marshal(map[string]int{"max_epochs": n})
	if err != nil {
		return 0, err
	}

	url := sdk.trainerURL + trainingEndpoint + "/max-epochs"

	body, err := sdk.processRequest(http.MethodPut, url, data, http.StatusOK)
	if err != nil {
		return 0, err
	}

	var res struct {
		MaxEpochs int `json:"max_epochs"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return 0, err
	}

	return res.MaxEpochs, nil
}

func (sdk *mltSDK) Peers() ([]peer.Snapshot, error) {
	var res struct {
		Peers []peer.Snapshot `json:"peers"`
	}
	if err := sdk.getJSON(sdk.trainerURL+trainingEndpoint+"/peers", &res); err != nil {
		return nil, err
	}

	return res.Peers, nil
}

func (sdk *mltSDK) Events() ([]network.Event, error) {
	var res struct {
		Events []network.Event `json:"events"`
	}
	if err := sdk.getJSON(sdk.trainerURL+trainingEndpoint+"/events", &res); err != nil {
		return nil, err
	}

	return res.Events, nil
}

func (sdk *mltSDK) History() ([]history.Record, error) {
	var res struct {
		Records []history.Record `json:"records"`
	}
	if err := sdk.getJSON(sdk.trainerURL+trainingEndpoint+"/history", &res); err != nil {
		return nil, err
	}

	return res.Records, nil
}

func (sdk *mltSDK) Stats() (history.Stats, error) {
	var stats history.Stats
	if err := sdk.getJSON(sdk.trainerURL+trainingEndpoint+"/stats", &stats); err != nil {
		return history.Stats{}, err
	}

	return stats, nil
}
