package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"airlogx/client"
	"airlogx/datalog"
	"airlogx/eeprom"
	"airlogx/models"
)

func main() {

	op := flag.String("op", models.OpDump, "operation: dump, count or erase")

	query := flag.String("query", "tcp://localhost:8008", "daemon query endpoint")

	response := flag.String("response", "tcp://localhost:8009", "daemon response endpoint")

	image := flag.String("image", "", "dump an eeprom image file directly instead of talking to the daemon")

	timeout := flag.Duration("timeout", 30*time.Second, "how long to wait for the daemon")

	flag.Parse()

	if *image != "" {

		if err := dumpImage(*image); err != nil {

			log.Fatalln("Error dumping image:", err)

		}

		return
	}

	c, err := client.NewQueryClient(*query, *response)

	if err != nil {

		log.Fatalln("Error creating client:", err)

	}

	defer c.Close()

	resp, err := c.SendQuery(models.Query{

		QueryID: uint64(time.Now().UnixNano()),

		Op: *op,
	}, *timeout)

	if err != nil {

		log.Fatalln("Error sending query:", err)

	}

	if resp.Error != "" {

		log.Fatalln("Daemon reported:", resp.Error)

	}

	switch *op {

	case models.OpCount:

		fmt.Printf("entries: %d full: %v\n", resp.Entries, resp.Full)

	case models.OpErase:

		fmt.Println("store erased")

	default:

		for _, line := range resp.Lines {

			fmt.Println(line)

		}
	}
}

// dumpImage replays an image file offline over stdout, same order as the
// serial dump.
func dumpImage(path string) error {

	dev, err := eeprom.NewFileDevice(path)

	if err != nil {

		return err

	}

	defer dev.Close()

	lg := datalog.New(dev, datalog.DefaultConfig(), nil)

	return lg.SendAllData(os.Stdout)
}
