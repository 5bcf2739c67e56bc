package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"airlogx/models"
)

// InitQueryResponser binds a PUSH socket and ships engine responses until
// the result channel closes.
func InitQueryResponser(endpoint string, results <-chan models.QueryResponse, wg *sync.WaitGroup) {

	defer wg.Done()

	context, err := zmq.NewContext()

	if err != nil {

		log.Printf("Error initializing query responser context: %v", err)

		return

	}

	defer context.Term()

	socket, err := context.NewSocket(zmq.PUSH)

	if err != nil {

		log.Printf("Error initializing query responser socket: %v", err)

		return
	}

	defer socket.Close()

	if err := socket.Bind(endpoint); err != nil {

		log.Printf("Error binding query responser socket to %s: %v", endpoint, err)

		return

	}

	log.Println("Query responser started on", endpoint)

	for result := range results {

		resultBytes, err := json.Marshal(result)

		if err != nil {

			log.Printf("Error marshalling query result: %v", err)

			continue

		}

		var sendErr error

		for retries := 0; retries < 3; retries++ {

			if retries > 0 {

				log.Printf("Retrying send for QueryID %d (attempt %d)", result.QueryID, retries+1)

			}

			_, sendErr = socket.SendBytes(resultBytes, zmq.DONTWAIT)

			if sendErr == nil {

				break

			}

			if retries < 2 {

				time.Sleep(100 * time.Millisecond)

			}
		}

		if sendErr != nil {

			log.Printf("Failed to send response for QueryID %d after retries: %v", result.QueryID, sendErr)

		}
	}

	log.Println("Query responser shutting down")
}
