package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orris-inc/helpdesk/internal/application/ticket/dto"
	"github.com/orris-inc/helpdesk/internal/domain/ticket"
	vo "github.com/orris-inc/helpdesk/internal/domain/ticket/valueobjects"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func existingTicket(t *testing.T, id uint, status vo.TicketStatus) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.ReconstructTicket(id, "Jane Doe", "jane@example.com", "Login broken", status, fixedTime, fixedTime)
	require.NoError(t, err)
	return tk
}

func testPersona(t *testing.T) ticket.Author {
	t.Helper()
	a, err := ticket.NewAuthor("Support Agent", "support@helpdesk.local")
	require.NoError(t, err)
	return a
}

func stagedFiles(keys ...string) []dto.FileMetaDTO {
	files := make([]dto.FileMetaDTO, 0, len(keys))
	for _, k := range keys {
		files = append(files, dto.FileMetaDTO{
			Path:     k,
			FileURL:  "https://cdn.example.com/" + k,
			FileName: "screenshot.png",
			FileSize: 4,
			MimeType: "image/png",
		})
	}
	return files
}
