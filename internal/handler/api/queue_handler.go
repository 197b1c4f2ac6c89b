package api

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jukewave/jukewave/internal/domain"
	"github.com/jukewave/jukewave/pkg/logger"
	"github.com/jukewave/jukewave/pkg/utils"
	"github.com/jukewave/jukewave/pkg/xresponse"
)

// QueueHandler handles queue-related HTTP requests
type QueueHandler struct {
	queueUC    domain.QueueUsecase
	ledgerRepo domain.LedgerRepository
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queueUC domain.QueueUsecase, ledgerRepo domain.LedgerRepository) *QueueHandler {
	return &QueueHandler{queueUC: queueUC, ledgerRepo: ledgerRepo}
}

// SubmitRequest represents the body of a bid submission
type SubmitRequest struct {
	ContentRef string `json:"content_ref" binding:"required"`
	Bid        uint64 `json:"bid" binding:"required"`
}

// EntryResponse represents a single queue entry
type EntryResponse struct {
	Index      int    `json:"index"`
	ContentRef string `json:"content_ref"`
	Bid        uint64 `json:"bid"`
	Submitter  string `json:"submitter"`
	CreatedAt  string `json:"created_at"`
}

// Submit places a bid-backed submission into the queue
func (h *QueueHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid request body", logger.ErrorField(err))
		xresponse.BadRequest(c, "Invalid request format")
		return
	}

	submitter := GetSubmitterAddress(c)
	if submitter == "" {
		xresponse.Unauthorized(c, "Authentication required")
		return
	}

	receipt, err := h.queueUC.SubmitEntry(submitter, req.ContentRef, req.Bid)
	if err != nil {
		logger.Error("Failed to submit entry",
			logger.String("submitter", submitter),
			logger.String("content_ref", utils.TruncateString(req.ContentRef, 64)),
			logger.ErrorField(err),
		)

		switch {
		case errors.Is(err, domain.ErrContentTooLong):
			xresponse.BadRequestWithCode(c, xresponse.ErrCodeContentTooLong, "Content reference exceeds length bound")
		case errors.Is(err, domain.ErrZeroBid):
			xresponse.BadRequestWithCode(c, xresponse.ErrCodeZeroBid, "Bid must be greater than zero")
		case errors.Is(err, domain.ErrReentrantCall):
			xresponse.QueueBusy(c, "Another submission is being processed, retry shortly")
		case errors.Is(err, domain.ErrPaymentFailed):
			xresponse.PaymentFailed(c, "Bid payment could not be forwarded")
		default:
			xresponse.InternalServerError(c, "Failed to submit entry")
		}
		return
	}

	if !receipt.Queued {
		// Paid but outranked by a full queue: report it honestly instead
		// of the contract's silent drop.
		xresponse.Success(c, "Bid accepted but outranked, entry not queued", receipt)
		return
	}

	xresponse.Created(c, "Entry queued", receipt)
}

// NowPlaying returns the head entry and the time remaining until the next
// advance, the display client's fast poll
func (h *QueueHandler) NowPlaying(c *gin.Context) {
	view, err := h.queueUC.NowPlaying()
	if err != nil {
		xresponse.InternalServerError(c, "Failed to read queue head")
		return
	}

	xresponse.Success(c, "Now playing", view)
}

// Metadata returns the full queue document for the display client
func (h *QueueHandler) Metadata(c *gin.Context) {
	meta, err := h.queueUC.Metadata()
	if err != nil {
		xresponse.InternalServerError(c, "Failed to read queue metadata")
		return
	}

	xresponse.Success(c, "Queue metadata", meta)
}

// Count returns the number of queued entries
func (h *QueueHandler) Count(c *gin.Context) {
	xresponse.Success(c, "Queue count", gin.H{"count": h.queueUC.Count()})
}

// EntryAt returns the entry at the given index, 0 being the head
func (h *QueueHandler) EntryAt(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		xresponse.BadRequest(c, "Index must be an integer")
		return
	}

	entry, err := h.queueUC.EntryAt(index)
	if err != nil {
		if errors.Is(err, domain.ErrOutOfRange) {
			xresponse.OutOfRange(c, "No entry at that index")
		} else {
			xresponse.InternalServerError(c, "Failed to read entry")
		}
		return
	}

	xresponse.Success(c, "Queue entry", EntryResponse{
		Index:      index,
		ContentRef: entry.ContentRef,
		Bid:        entry.Bid,
		Submitter:  entry.Submitter,
		CreatedAt:  utils.FormatTime(entry.CreatedAt),
	})
}

// Events returns the newest journal rows, most recent first
func (h *QueueHandler) Events(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		xresponse.BadRequest(c, "Limit must be a positive integer")
		return
	}

	events, err := h.ledgerRepo.RecentEvents(limit)
	if err != nil {
		logger.Error("Failed to read queue events", logger.ErrorField(err))
		xresponse.InternalServerError(c, "Failed to read queue events")
		return
	}

	xresponse.Success(c, "Queue events", gin.H{"events": events})
}
