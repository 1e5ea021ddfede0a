package services

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// IndexJob asks the indexer to chunk, embed and store one uploaded document.
type IndexJob struct {
	InterviewID uuid.UUID
	DocType     string
	Text        string
}

// Indexer feeds uploaded résumés and job descriptions into the vector store
// in the background. Indexing is advisory: a failed job only costs retrieval
// context for later question prompts, so failures are logged and dropped.
type Indexer interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(job IndexJob)
}

type indexer struct {
	geminiService GeminiService
	vectorStore   VectorStore
	chunker       TextChunker
	jobQueue      chan IndexJob
	concurrency   int
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

func NewIndexer(geminiService GeminiService, vectorStore VectorStore, concurrency int) Indexer {
	return &indexer{
		geminiService: geminiService,
		vectorStore:   vectorStore,
		chunker:       NewTextChunker(),
		jobQueue:      make(chan IndexJob, 100),
		concurrency:   concurrency,
		stopChan:      make(chan struct{}),
	}
}

// Start implements Indexer.
func (ix *indexer) Start(ctx context.Context) {
	log.Printf("🚀 Starting indexer with %d workers\n", ix.concurrency)

	for i := 0; i < ix.concurrency; i++ {
		ix.wg.Add(1)
		go ix.processJobs(ctx, i+1)
	}
}

// Stop implements Indexer.
func (ix *indexer) Stop() {
	log.Println("🛑 Stopping indexer...")
	close(ix.stopChan)
	ix.wg.Wait()
	log.Println("✅ Indexer stopped")
}

// Enqueue implements Indexer.
func (ix *indexer) Enqueue(job IndexJob) {
	select {
	case ix.jobQueue <- job:
		log.Printf("📥 Index job for interview %s (%s) enqueued\n", job.InterviewID, job.DocType)
	case <-ix.stopChan:
		log.Printf("⚠️  Indexer stopped, cannot enqueue job for interview %s\n", job.InterviewID)
	}
}

func (ix *indexer) processJobs(ctx context.Context, workerID int) {
	defer ix.wg.Done()

	for {
		select {
		case <-ix.stopChan:
			log.Printf("👷 Indexer worker #%d stopped\n", workerID)
			return
		case job := <-ix.jobQueue:
			if err := ix.indexDocument(ctx, job); err != nil {
				log.Printf("⚠️  Indexer worker #%d failed for interview %s: %v\n", workerID, job.InterviewID, err)
			} else {
				log.Printf("✅ Indexer worker #%d indexed %s for interview %s\n", workerID, job.DocType, job.InterviewID)
			}
		}
	}
}

func (ix *indexer) indexDocument(ctx context.Context, job IndexJob) error {
	chunks := ix.chunker.ChunkText(job.Text, 1000, 100)

	for _, chunk := range chunks {
		embedding, err := ix.geminiService.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return err
		}

		if err := ix.vectorStore.UpsertChunk(ctx, job.InterviewID.String(), job.DocType, chunk, embedding); err != nil {
			return err
		}
	}

	return nil
}
