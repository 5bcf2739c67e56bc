package client

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	zmq "github.com/pebbe/zmq4"

	"airlogx/models"
)

// QueryClient sends queries to the logger daemon and collects the matching
// responses. Wire format is the JSON envelope from models, one message per
// query and per response.
type QueryClient struct {
	context *zmq.Context

	sendSocket *zmq.Socket

	recvSocket *zmq.Socket

	responses chan models.QueryResponse

	done chan struct{}
}

// NewQueryClient connects to the daemon's query and response endpoints.
func NewQueryClient(queryEndpoint, responseEndpoint string) (*QueryClient, error) {

	context, err := zmq.NewContext()

	if err != nil {

		return nil, fmt.Errorf("failed to create ZMQ context: %v", err)

	}

	sendSocket, err := context.NewSocket(zmq.PUSH)

	if err != nil {

		context.Term()

		return nil, fmt.Errorf("failed to create send socket: %v", err)

	}

	if err := sendSocket.Connect(queryEndpoint); err != nil {

		sendSocket.Close()

		context.Term()

		return nil, fmt.Errorf("failed to connect send socket: %v", err)
	}

	recvSocket, err := context.NewSocket(zmq.PULL)

	if err != nil {

		sendSocket.Close()

		context.Term()

		return nil, fmt.Errorf("failed to create receive socket: %v", err)

	}

	if err := recvSocket.Connect(responseEndpoint); err != nil {

		recvSocket.Close()
		sendSocket.Close()
		context.Term()

		return nil, fmt.Errorf("failed to connect receive socket: %v", err)
	}

	client := &QueryClient{

		context: context,

		sendSocket: sendSocket,

		recvSocket: recvSocket,

		responses: make(chan models.QueryResponse),

		done: make(chan struct{}),
	}

	go client.receiveResponses()

	return client, nil
}

// SendQuery sends one query and waits for the response carrying the same
// QueryID. Responses for other IDs are ignored.
func (c *QueryClient) SendQuery(query models.Query, timeout time.Duration) (*models.QueryResponse, error) {

	queryBytes, err := json.Marshal(query)

	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %v", err)
	}

	if _, err := c.sendSocket.SendBytes(queryBytes, 0); err != nil {
		return nil, fmt.Errorf("failed to send query: %v", err)
	}

	deadline := time.After(timeout)

	for {

		select {

		case response := <-c.responses:

			if response.QueryID == query.QueryID {

				return &response, nil

			}

			log.Printf("Ignoring response for QueryID %d while waiting for %d", response.QueryID, query.QueryID)

		case <-deadline:

			return nil, fmt.Errorf("timeout waiting for response to query ID: %d", query.QueryID)

		case <-c.done:

			return nil, fmt.Errorf("client closed")

		}
	}
}

func (c *QueryClient) receiveResponses() {

	for {

		select {

		case <-c.done:

			return

		default:

			msgBytes, err := c.recvSocket.RecvBytes(zmq.DONTWAIT)

			if err != nil {

				if zmq.AsErrno(err) == zmq.Errno(11) { // EAGAIN

					time.Sleep(50 * time.Millisecond)

					continue

				}

				log.Printf("Error receiving response: %v", err)

				continue
			}

			var response models.QueryResponse

			if err := json.Unmarshal(msgBytes, &response); err != nil {

				log.Printf("Error unmarshalling response: %v", err)

				continue

			}

			select {

			case c.responses <- response:

			case <-c.done:

				return

			}
		}
	}
}

func (c *QueryClient) Close() {

	close(c.done)

	c.recvSocket.Close()

	c.sendSocket.Close()

	c.context.Term()

}
