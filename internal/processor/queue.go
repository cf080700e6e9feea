package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/bot"

	"github.com/rs/zerolog"
)

const botResultTimeout = 5 * time.Second

// BotTask asks a worker to choose a move for a computer player
type BotTask struct {
	GameID   string
	Source   bot.MoveSource
	Response chan<- BotResult
}

// BotResult contains the outcome of a bot choice
type BotResult struct {
	GameID    string
	Move      board.Move
	Found     bool       // false when there was no legal move
	Promotion board.Kind // promotion piece to use if the move promotes
	Error     error
}

// BotQueue runs computer move selection on a pool of workers
type BotQueue struct {
	tasks   chan BotTask
	bot     bot.Bot
	workers int
	log     zerolog.Logger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	closed  sync.Once
}

// NewBotQueue creates a queue with specified worker count
func NewBotQueue(b bot.Bot, workerCount int, log zerolog.Logger) *BotQueue {
	if workerCount < 1 {
		workerCount = 2
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &BotQueue{
		tasks:   make(chan BotTask, 100), // Buffered for queueing
		bot:     b,
		workers: workerCount,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.start()
	return q
}

// start initializes the worker pool
func (q *BotQueue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

func (q *BotQueue) worker(id int) {
	defer q.wg.Done()

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return
			}

			result := q.processTask(task)
			q.log.Debug().Int("worker", id).Str("game", task.GameID).Str("move", result.Move.String()).Bool("found", result.Found).Msg("bot move chosen")

			// Send result if receiver still listening
			select {
			case task.Response <- result:
			case <-time.After(100 * time.Millisecond):
			}

		case <-q.ctx.Done():
			return
		}
	}
}

func (q *BotQueue) processTask(task BotTask) (result BotResult) {
	result.GameID = task.GameID

	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("bot %s panicked: %v", q.bot.Name(), r)
		}
	}()

	move, ok := q.bot.ChooseMove(task.Source)
	if !ok {
		return result
	}
	result.Move = move
	result.Found = true
	result.Promotion = q.bot.ChoosePromotion()
	return result
}

// Submit adds a task to the queue
func (q *BotQueue) Submit(task BotTask) error {
	select {
	case <-q.ctx.Done():
		return fmt.Errorf("queue is shutting down")
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return fmt.Errorf("queue is full")
	}
}

// SubmitAsync submits a task and hands its result to callback in the background
func (q *BotQueue) SubmitAsync(gameID string, src bot.MoveSource, callback func(BotResult)) error {
	respChan := make(chan BotResult, 1)

	task := BotTask{
		GameID:   gameID,
		Source:   src,
		Response: respChan,
	}

	if err := q.Submit(task); err != nil {
		return err
	}

	go func() {
		select {
		case result := <-respChan:
			callback(result)
		case <-time.After(botResultTimeout):
			callback(BotResult{
				GameID: gameID,
				Error:  fmt.Errorf("bot timeout"),
			})
		}
	}()

	return nil
}

// Shutdown gracefully stops the queue
func (q *BotQueue) Shutdown(timeout time.Duration) error {
	q.closed.Do(q.cancel)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
