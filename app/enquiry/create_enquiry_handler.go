package enquiry

import (
	"catalog/domain"
	"catalog/pkg/httperror"
	"catalog/pkg/notify"
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	submittedMessage = "Enquiry submitted successfully!"
	failedMessage    = "Failed to submit enquiry. Please try again."

	notifyTimeout = 30 * time.Second
)

type CreateEnquiryHandler struct {
	repository Repository
	notifier   notify.Notifier
	addressing notify.Addressing
	inflight   sync.WaitGroup
}

type CreateEnquiryRequest struct {
	ItemName  string  `json:"itemName" form:"itemName"`
	UserEmail string  `json:"userEmail" form:"userEmail"`
	Message   string  `json:"message" form:"message"`
	ItemID    ItemRef `json:"itemId" form:"-"`
}

type CreateEnquiryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewCreateEnquiryHandler(repository Repository, notifier notify.Notifier, addressing notify.Addressing) *CreateEnquiryHandler {
	return &CreateEnquiryHandler{
		repository: repository,
		notifier:   notifier,
		addressing: addressing,
	}
}

// Handle stores the enquiry and notifies the store in the background. Only a
// failed insert fails the request.
func (h *CreateEnquiryHandler) Handle(ctx context.Context, req *CreateEnquiryRequest) (*CreateEnquiryResponse, error) {
	enquiry := domain.Enquiry{
		ItemID:    req.ItemID.Ptr(),
		ItemName:  req.ItemName,
		UserEmail: req.UserEmail,
		Message:   req.Message,
		Status:    domain.EnquiryStatusPending,
	}
	if enquiry.UserEmail == "" {
		enquiry.UserEmail = domain.AnonymousEmail
	}
	if enquiry.Message == "" {
		enquiry.Message = domain.DefaultEnquiryMessage(req.ItemName)
	}

	id, err := h.repository.SaveEnquiry(ctx, enquiry)
	if err != nil {
		return nil, httperror.InternalServerError(
			"enquiry.create.save_failed",
			failedMessage,
			err.Error(),
		).WithBody(fiber.Map{
			"success": false,
			"message": failedMessage,
		})
	}

	zap.L().Info("Enquiry saved",
		zap.Int64("enquiryId", id),
		zap.String("itemName", req.ItemName),
	)

	h.dispatch(ctx, notify.EnquiryDetails{
		ID:        id,
		ItemName:  req.ItemName,
		UserEmail: req.UserEmail,
		Message:   req.Message,
		CreatedAt: time.Now(),
	})

	return &CreateEnquiryResponse{
		Success: true,
		Message: submittedMessage,
	}, nil
}

func (h *CreateEnquiryHandler) dispatch(ctx context.Context, details notify.EnquiryDetails) {
	if h.notifier == nil {
		return
	}

	msg, err := notify.BuildEnquiryMessage(details, h.addressing)
	if err != nil {
		zap.L().Error("Failed to build enquiry notification", zap.Int64("enquiryId", details.ID), zap.Error(err))
		return
	}

	notifyCtx := context.WithoutCancel(ctx)
	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		ctx, cancel := context.WithTimeout(notifyCtx, notifyTimeout)
		defer cancel()

		if err := h.notifier.Notify(ctx, msg); err != nil {
			zap.L().Error("Failed to send enquiry notification",
				zap.Int64("enquiryId", details.ID),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every notification started so far has finished.
func (h *CreateEnquiryHandler) Wait() {
	h.inflight.Wait()
}
