package main

import (
	"log"
	"os"
)

var logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Printf("error: %+v", err)
		os.Exit(1)
	}
}
