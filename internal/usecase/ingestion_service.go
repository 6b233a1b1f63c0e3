package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/platform/id"
)

const defaultIngestWorkers = 8

// RowError reports one malformed CSV row. Malformed rows never fail the load;
// they are skipped and surfaced here.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// BulkLoadReport is the outcome of one CSV upload.
type BulkLoadReport struct {
	Inserted  int        `json:"inserted"`
	Updated   int        `json:"updated"`
	Skipped   int        `json:"skipped"`
	Warnings  []string   `json:"warnings,omitempty"`
	RowErrors []RowError `json:"row_errors,omitempty"`
}

type IngestionService struct {
	playerRepo player.Repository
	idGen      id.Generator
	workers    int
}

func NewIngestionService(playerRepo player.Repository, idGen id.Generator, workers int) *IngestionService {
	if workers <= 0 {
		workers = defaultIngestWorkers
	}

	return &IngestionService{
		playerRepo: playerRepo,
		idGen:      idGen,
		workers:    workers,
	}
}

// LoadCSV parses a player pool upload and applies it to the league. With
// overwrite the pool is replaced (drafted players reconciled, never deleted);
// without it new players merge additively and duplicates are skipped.
func (s *IngestionService) LoadCSV(ctx context.Context, leagueID string, body io.Reader, overwrite bool) (BulkLoadReport, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.LoadCSV")
	defer span.End()

	rows, rowErrors, err := s.parse(body)
	if err != nil {
		return BulkLoadReport{}, err
	}

	players := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		playerID, err := s.idGen.NewID()
		if err != nil {
			return BulkLoadReport{}, fmt.Errorf("generate player id: %w", err)
		}
		players = append(players, player.Player{
			ID:       playerID,
			LeagueID: leagueID,
			Name:     row.name,
			Position: row.position,
			Rank:     row.rank,
		})
	}

	var result player.BulkLoadResult
	if overwrite {
		result, err = s.playerRepo.Replace(ctx, leagueID, players)
	} else {
		result, err = s.playerRepo.Merge(ctx, leagueID, players)
	}
	if err != nil {
		return BulkLoadReport{}, fmt.Errorf("apply player upload: %w", err)
	}

	return BulkLoadReport{
		Inserted:  result.Inserted,
		Updated:   result.Updated,
		Skipped:   result.Skipped,
		Warnings:  result.Warnings,
		RowErrors: rowErrors,
	}, nil
}

type parsedRow struct {
	name     string
	position player.Position
	rank     int
}

type rowOutcome struct {
	row parsedRow
	err *RowError
}

// parse reads the CSV and validates rows on a worker pool. Column order is
// free; a header with name and position columns is required, rank is optional.
func (s *IngestionService) parse(body io.Reader) ([]parsedRow, []RowError, error) {
	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing csv header", ErrInvalidInput)
	}

	nameCol, posCol, rankCol := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name":
			nameCol = i
		case "position":
			posCol = i
		case "rank":
			rankCol = i
		}
	}
	if nameCol < 0 || posCol < 0 {
		return nil, nil, fmt.Errorf("%w: csv header must contain name and position columns", ErrInvalidInput)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		records = append(records, record)
	}

	workerCount := s.workers
	if len(records) < workerCount {
		workerCount = len(records)
	}

	outcomes := make([]rowOutcome, len(records))
	if workerCount > 1 {
		pool, err := ants.NewPool(workerCount)
		if err != nil {
			return nil, nil, fmt.Errorf("create upload worker pool: %w", err)
		}
		defer pool.Release()

		var workers sync.WaitGroup
		for i, record := range records {
			i, record := i, record
			workers.Add(1)
			if err := pool.Submit(func() {
				defer workers.Done()
				outcomes[i] = validateRow(record, i+2, nameCol, posCol, rankCol)
			}); err != nil {
				workers.Done()
				outcomes[i] = validateRow(record, i+2, nameCol, posCol, rankCol)
			}
		}
		workers.Wait()
	} else {
		for i, record := range records {
			outcomes[i] = validateRow(record, i+2, nameCol, posCol, rankCol)
		}
	}

	rows := make([]parsedRow, 0, len(outcomes))
	var rowErrors []RowError
	for _, outcome := range outcomes {
		if outcome.err != nil {
			rowErrors = append(rowErrors, *outcome.err)
			continue
		}
		rows = append(rows, outcome.row)
	}

	return rows, rowErrors, nil
}

func validateRow(record []string, line, nameCol, posCol, rankCol int) rowOutcome {
	field := func(col int) string {
		if col < 0 || col >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[col])
	}

	name := field(nameCol)
	if name == "" {
		return rowOutcome{err: &RowError{Line: line, Reason: "name is empty"}}
	}

	pos, err := player.ParsePosition(field(posCol))
	if err != nil {
		return rowOutcome{err: &RowError{Line: line, Reason: err.Error()}}
	}

	rank := 0
	if raw := field(rankCol); raw != "" {
		rank, err = strconv.Atoi(raw)
		if err != nil || rank < 0 {
			return rowOutcome{err: &RowError{Line: line, Reason: fmt.Sprintf("invalid rank %q", raw)}}
		}
	}

	return rowOutcome{row: parsedRow{name: name, position: pos, rank: rank}}
}
