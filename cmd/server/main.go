package main

import (
	"github.com/corpora-lab/papergraph/internal/server"
	"github.com/corpora-lab/papergraph/internal/util"
	"github.com/corpora-lab/papergraph/pkg/logger"
	"github.com/corpora-lab/papergraph/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	logger.Init(console.New(console.Params{
		Debug: util.GetEnvBool("DEBUG", false),
	}))

	server.Init()
}
