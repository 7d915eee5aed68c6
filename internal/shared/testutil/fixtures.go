package testutil

import (
	"time"

	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// Date parses a YYYY-MM-DD literal and panics on malformed input
func Date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// DatePtr is Date returning a pointer, for optional range bounds
func DatePtr(s string) *time.Time {
	t := Date(s)
	return &t
}

// Event builds a BillEvent with derived fields and default passthrough columns
func Event(row int, bill, author, status, date string) domain.BillEvent {
	return domain.NewBillEvent(row, bill, author, status, Date(date), "Vereadores presentes", "Ata")
}

// ExampleEvents returns the three-row reference dataset: two events for bill
// 1/2025 by Ana and one for 2/2025 by Bia, sharing the 2024-02-01 session.
func ExampleEvents() []domain.BillEvent {
	return []domain.BillEvent{
		Event(0, "1/2025", "Ana", "Em Discussão", "2024-02-01"),
		Event(1, "1/2025", "Ana", "Aprovado (Votação Simbólica)", "2024-03-01"),
		Event(2, "2/2025", "Bia", "Rejeitado", "2024-02-01"),
	}
}

// SampleEvents returns a richer dataset spanning two years and three authors.
//
//	Ana Souza     5 events, 2 approved
//	Bia Lima      2 events, 0 approved
//	Carlos Mendes 2 events, 1 approved
func SampleEvents() []domain.BillEvent {
	return []domain.BillEvent{
		Event(0, "1/2025", "Ana Souza", "Em Discussão", "2024-02-01"),
		Event(1, "1/2025", "Ana Souza", "Aprovado (Votação Simbólica)", "2024-03-01"),
		Event(2, "2/2025", "Bia Lima", "Rejeitado", "2024-02-01"),
		Event(3, "3/2025", "Carlos Mendes", "Encaminhado para Comissão", "2024-03-01"),
		Event(4, "3/2025", "Carlos Mendes", "Aprovado", "2024-04-15"),
		Event(5, "4/2025", "Ana Souza", "Em Discussão", "2024-04-15"),
		Event(6, "5/2025", "Bia Lima", "Não identificado", "2025-01-10"),
		Event(7, "6/2025", "Ana Souza", "aprovado em 1ª votação", "2025-01-10"),
		Event(8, "7/2025", "Ana Souza", "Em Discussão", "2025-01-20"),
	}
}

// ExampleCSV is the reference dataset as a source file, with a BOM, a
// trimmed-whitespace cell and two rows the loader must drop.
const ExampleCSV = "\ufeffPL,Autor,Status,Data Sessão,Presentes,Fonte\n" +
	"1/2025, Ana ,Em Discussão,2024-02-01,\"Ana, Bia\",Ata 1\n" +
	"1/2025,Ana,Aprovado (Votação Simbólica),01/03/2024,\"Ana, Bia\",Ata 2\n" +
	"2/2025,Bia,Rejeitado,2024-02-01 18:30:00,\"Ana, Bia\",Ata 1\n" +
	"9/2023,Caio,Arquivado,2023-12-15,Caio,Ata 0\n" +
	"10/2025,Caio,Em Discussão,sem data,Caio,Ata 3\n"
