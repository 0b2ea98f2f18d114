package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/GoIndexer/internal/api"
	"github.com/akolanti/GoIndexer/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:         string(job.Status),
		SearchResponse: ToSearchResponse(job.JobPayload),
		IngestReport:   ToIngestReport(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToSearchResponse(payload jobModel.JobPayload) *api.SearchResponse {
	if payload.Question == "" && len(payload.Matches) == 0 {
		return nil
	}

	matches := make([]api.Match, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		matches = append(matches, api.Match{
			Content:       m.Text,
			SourceId:      m.SourceId,
			SequenceIndex: m.SequenceIndex,
			CharStart:     m.CharStart,
			CharEnd:       m.CharEnd,
			Score:         m.Score,
		})
	}

	return &api.SearchResponse{
		Question: payload.Question,
		Matches:  matches,
	}
}

func ToIngestReport(payload jobModel.JobPayload) *api.IngestReport {
	if payload.Report == nil {
		return nil
	}

	failed := make([]api.FailedSource, 0, len(payload.Report.Failed))
	for _, f := range payload.Report.Failed {
		failed = append(failed, api.FailedSource{
			SourceId: f.SourceId,
			Reason:   f.Reason,
		})
	}

	return &api.IngestReport{
		Succeeded:  payload.Report.Succeeded,
		ChunkCount: payload.Report.ChunkCount,
		Failed:     failed,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
