package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/GoIndexer/internal/config"
	"github.com/akolanti/GoIndexer/internal/data/redisStore"
	"github.com/akolanti/GoIndexer/internal/data/store"
	"github.com/akolanti/GoIndexer/internal/domain/commonModels"
	"github.com/akolanti/GoIndexer/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	// 1. Start miniredis
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	internalStore := redisStore.NewTestStore(client)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:     jobID,
		Status: jobModel.JobStatusRunning,
		JobPayload: jobModel.JobPayload{
			Question: "when do classes start?",
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		// Test Save
		err := jobStore.SaveJob(ctx, testJob)
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		// Test Get
		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.JobPayload.Question != testJob.JobPayload.Question {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.Question, testJob.JobPayload.Question)
		}
	})

	t.Run("Ingest job keeps its report", func(t *testing.T) {
		ingestJob := jobModel.Job{
			Id:      "job_ingest_1",
			JobType: jobModel.JobTypeIngest,
			Status:  jobModel.JobStatusComplete,
			JobPayload: jobModel.JobPayload{
				IngestFileName: "handbook.pdf",
				Report: &commonModels.BuildReport{
					Succeeded:  1,
					ChunkCount: 17,
				},
			},
		}

		if err := jobStore.SaveJob(ctx, ingestJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrieved, found := jobStore.GetJob(ctx, "job_ingest_1")
		if !found {
			t.Fatal("ingest job not found after save")
		}
		if retrieved.JobPayload.Report == nil || retrieved.JobPayload.Report.ChunkCount != 17 {
			t.Errorf("report lost on roundtrip: %+v", retrieved.JobPayload.Report)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		// Verify it's gone from miniredis
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.TestJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}

func TestInMemoryJobStore_Lifecycle(t *testing.T) {
	jobStore := store.InitInMemoryJobStore()
	ctx := context.Background()

	job := jobModel.Job{Id: "mem-job", Status: jobModel.JobStatusQueued}
	if err := jobStore.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, found := jobStore.GetJob(ctx, "mem-job")
	if !found || got.Id != "mem-job" {
		t.Fatalf("GetJob = %+v, %v", got, found)
	}

	jobStore.DeleteJob(ctx, "mem-job")
	if _, found := jobStore.GetJob(ctx, "mem-job"); found {
		t.Error("job still present after delete")
	}
}
