package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	"github.com/orris-inc/helpdesk/internal/infrastructure/storage"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
	"github.com/orris-inc/helpdesk/internal/shared/mapper"
	"github.com/orris-inc/helpdesk/internal/shared/utils"
)

const compensationTimeout = 30 * time.Second

type SubmitTicketCommand struct {
	CreateTicketCommand
	Attachments []dto.FileMetaDTO `json:"attachments" validate:"dive"`
}

// SubmitTicketUseCase creates a ticket with its attachments and the ticket.created
// event in a single transaction. Staged objects are deleted when the transaction fails.
type SubmitTicketUseCase struct {
	create     *CreateTicketUseCase
	commit     *CommitAttachmentsUseCase
	outboxRepo     ticket.OutboxRepository
	attachmentRepo ticket.AttachmentRepository
	store          ObjectStore
	txMgr          TransactionRunner
	logger         logger.Interface
}

func NewSubmitTicketUseCase(
	create *CreateTicketUseCase,
	commit *CommitAttachmentsUseCase,
	outboxRepo ticket.OutboxRepository,
	attachmentRepo ticket.AttachmentRepository,
	store ObjectStore,
	txMgr TransactionRunner,
	logger logger.Interface,
) *SubmitTicketUseCase {
	return &SubmitTicketUseCase{
		create:         create,
		commit:         commit,
		outboxRepo:     outboxRepo,
		attachmentRepo: attachmentRepo,
		store:          store,
		txMgr:          txMgr,
		logger:         logger,
	}
}

func (uc *SubmitTicketUseCase) Execute(ctx context.Context, cmd SubmitTicketCommand) (*dto.SubmitTicketResultDTO, error) {
	uc.logger.Infow("executing submit ticket use case", "attachments", len(cmd.Attachments))

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Warnw("invalid submit ticket command", "error", err)
		return nil, err
	}

	var (
		created     *ticket.Ticket
		attachments []*ticket.Attachment
	)

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := uc.create.create(txCtx, cmd.CreateTicketCommand)
		if err != nil {
			return err
		}

		committed, err := uc.commit.commit(txCtx, t.ID(), cmd.Attachments)
		if err != nil {
			return err
		}

		if err := appendEvent(txCtx, uc.outboxRepo, ticket.NewTicketCreatedEvent(t, len(committed))); err != nil {
			return err
		}

		created = t
		attachments = committed
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("ticket submission rolled back", "error", txErr)
		uc.compensate(ctx, cmd.Attachments)
		return nil, writeError(txErr, "failed to submit ticket")
	}

	uc.logger.Infow("ticket submitted successfully",
		"ticket_id", created.ID(),
		"attachments", len(attachments),
	)

	return &dto.SubmitTicketResultDTO{
		Ticket:      dto.ToTicketDTO(created),
		Attachments: mapper.MapSlice(attachments, dto.ToAttachmentDTO),
	}, nil
}

// compensate removes staged objects of a failed submission. Keys referenced by a
// committed attachment, or whose reference check fails, are kept. It runs on a fresh
// context so a cancelled request still cleans up.
func (uc *SubmitTicketUseCase) compensate(ctx context.Context, files []dto.FileMetaDTO) {
	if len(files) == 0 {
		return
	}

	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	for _, f := range files {
		key := storage.SanitizeKey(f.Path)
		if !isStagingKey(key) {
			continue
		}
		referenced, err := uc.attachmentRepo.ExistsByPath(cleanupCtx, key)
		if err != nil {
			uc.logger.Warnw("kept staged file after rollback, reference check failed", "path", key, "error", err)
			continue
		}
		if referenced {
			uc.logger.Warnw("kept file referenced by a committed attachment", "path", key)
			continue
		}
		if err := uc.store.Delete(cleanupCtx, key); err != nil {
			uc.logger.Warnw("failed to delete staged file after rollback", "path", key, "error", err)
			continue
		}
		uc.logger.Infow("deleted staged file after rollback", "path", key)
	}
}
