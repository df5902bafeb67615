package sdk

import (
	"fmt"
	"strings"

	"github.com/absmach/mltorrent/pkg/run"
)

const runsEndpoint = "/runs"

func (sdk *mltSDK) ListRuns(offset, limit uint64) (run.RunPage, error) {
	queries := make([]string, 0)
	if offset > 0 {
		queries = append(queries, fmt.Sprintf("offset=%d", offset))
	}
	if limit > 0 {
		queries = append(queries, fmt.Sprintf("limit=%d", limit))
	}
	query := ""
	if len(queries) > 0 {
		query = "?" + strings.Join(queries, "&")
	}

	var page run.RunPage
	if err := sdk.getJSON(sdk.trainerURL+runsEndpoint+query, &page); err != nil {
		return run.RunPage{}, err
	}

	return page, nil
}

func (sdk *mltSDK) GetRun(id string) (run.Run, error) {
	var r run.Run
	if err := sdk.getJSON(sdk.trainerURL+runsEndpoint+"/"+id, &r); err != nil {
		return run.Run{}, err
	}

	return r, nil
}
