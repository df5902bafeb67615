package sdk

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/run"
)

const CTJSON string = "application/json"

type SDK interface {
	// StartTraining starts or resumes training.
	//
	// example:
	//  status, _ := sdk.StartTraining()
	//  fmt.Println(status.State)
	StartTraining() (Status, error)

	// StopTraining stops training between rounds.
	StopTraining() (Status, error)

	// ResetTraining stops training and rebuilds the simulation with a
	// fresh seed drawn from the trainer's seeder.
	ResetTraining() (Status, error)

	// TrainingStatus returns the trainer status.
	//
	// example:
	//  status, _ := sdk.TrainingStatus()
	//  fmt.Println(status.Epoch, status.GlobalAccuracy)
	TrainingStatus() (Status, error)

	// SetMaxEpochs sets the epoch budget and returns the clamped value the
	// trainer applied.
	//
	// example:
	//  applied, _ := sdk.SetMaxEpochs(80)
	//  fmt.Println(applied)
	SetMaxEpochs(n int) (int, error)

	// Peers lists the simulated peers.
	Peers() ([]peer.Snapshot, error)

	// Events lists the trailing window of network events.
	Events() ([]network.Event, error)

	// History returns one record per committed round, starting at epoch 0.
	History() ([]history.Record, error)

	// Stats summarises the current history.
	Stats() (history.Stats, error)

	// ListRuns lists archived runs.
	//
	// example:
	//  page, _ := sdk.ListRuns(0, 10)
	//  fmt.Println(page.Total)
	ListRuns(offset uint64, limit uint64) (run.RunPage, error)

	// GetRun gets an archived run by id.
	//
	// example:
	//  r, _ := sdk.GetRun("0190a5f2-7c1e-7c3a-9b1e-4f6a2c9d8e10")
	//  fmt.Println(r.Stats.FinalAccuracy)
	GetRun(id string) (run.Run, error)
}

type mltSDK struct {
	trainerURL string
	client     *http.Client
}

type Config struct {
	TrainerURL      string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &mltSDK{
		trainerURL: cfg.TrainerURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

// Error is returned when the trainer answers with an unexpected status code.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected response code: %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected response code: %d: %s", e.StatusCode, e.Message)
}

func (sdk *mltSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		var res struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &res)

		return []byte{}, &Error{StatusCode: resp.StatusCode, Message: res.Error}
	}

	return body, nil
}

func (sdk *mltSDK) getJSON(reqURL string, v any) error {
	body, err := sdk.processRequest(http.MethodGet, reqURL, nil, http.StatusOK)
	if err != nil {
		return err
	}

	return json.Unmarshal(body, v)
}
