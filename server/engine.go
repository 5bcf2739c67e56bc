package server

import (
	"log"
	"sync"

	"airlogx/datalog"
	"airlogx/models"
)

// InitDumpEngine consumes queries, runs them against the logger and pushes
// the responses out. One worker; the store has a single writer anyway.
func InitDumpEngine(lg *datalog.Logger, queries <-chan models.Query, results chan<- models.QueryResponse, wg *sync.WaitGroup) {

	defer wg.Done()

	defer close(results)

	cache, err := newEntryCache()

	if err != nil {

		log.Printf("Running without entry cache: %v", err)

	}

	log.Println("Dump engine started")

	for query := range queries {

		results <- handleQuery(lg, cache, query)

	}

	log.Println("Dump engine shutting down")
}

func handleQuery(lg *datalog.Logger, cache *entryCache, query models.Query) models.QueryResponse {

	response := models.QueryResponse{QueryID: query.QueryID}

	switch query.Op {

	case models.OpCount:

		count, full, err := lg.Count()

		if err != nil {

			response.Error = err.Error()

			return response

		}

		response.Entries = count

		response.Full = full

	case models.OpErase:

		if err := lg.EraseData(); err != nil {

			response.Error = err.Error()

			return response

		}

	case models.OpDump:

		return dumpResponse(lg, cache, query.QueryID)

	default:

		response.Error = "unknown op: " + query.Op

	}

	return response
}

func dumpResponse(lg *datalog.Logger, cache *entryCache, queryID uint64) models.QueryResponse {

	response := models.QueryResponse{QueryID: queryID}

	count, full, err := lg.Count()

	if err != nil {

		response.Error = err.Error()

		return response

	}

	response.Entries = count

	response.Full = full

	lines, err := lg.MetadataLines()

	if err != nil {

		response.Error = err.Error()

		return response

	}

	gen := lg.Generation()

	for slot := 0; slot < count; slot++ {

		if cache != nil {

			if line, ok := cache.get(gen, slot); ok {

				lines = append(lines, line)

				continue

			}
		}

		line, err := lg.ReadEntry(slot)

		if err != nil {

			response.Error = err.Error()

			return response

		}

		if cache != nil {

			cache.set(gen, slot, line)

		}

		lines = append(lines, line)
	}

	response.Lines = lines

	return response
}
