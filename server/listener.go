package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"

	"airlogx/models"
)

// InitQueryListener binds a PULL socket and feeds decoded queries into the
// engine channel until shutdown closes.
func InitQueryListener(endpoint string, queries chan<- models.Query, shutdown <-chan struct{}, wg *sync.WaitGroup) {

	defer wg.Done()

	defer close(queries)

	context, err := zmq.NewContext()

	if err != nil {

		log.Printf("Error initializing query listener context: %v", err)

		return

	}

	defer context.Term()

	socket, err := context.NewSocket(zmq.PULL)

	if err != nil {

		log.Printf("Error initializing query listener socket: %v", err)

		return

	}

	defer socket.Close()

	if err := socket.Bind(endpoint); err != nil {

		log.Printf("Error binding query listener socket to %s: %v", endpoint, err)

		return

	}

	log.Println("Query listener started on", endpoint)

	for {

		select {

		case <-shutdown:

			log.Println("Query listener shutting down")

			return

		default:

			queryBytes, err := socket.RecvBytes(zmq.DONTWAIT)

			if err != nil {

				if zmq.AsErrno(err) == zmq.Errno(11) { // EAGAIN

					// No message available, sleep briefly and continue

					time.Sleep(100 * time.Millisecond)

					continue

				}

				log.Printf("Error receiving query: %v", err)

				continue
			}

			var query models.Query

			if err = json.Unmarshal(queryBytes, &query); err != nil {

				log.Printf("Error unmarshalling query: %v", err)

				continue

			}

			log.Printf("Received query: %+v", query)

			queries <- query

		}

	}
}
