package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"text2phenotype.com/seqtag/api"
	"text2phenotype.com/seqtag/logger"
	"text2phenotype.com/seqtag/pipeline"
	"text2phenotype.com/seqtag/s3client"
	"text2phenotype.com/seqtag/types"
	"text2phenotype.com/seqtag/worker"
)

type Config struct {
	ConfigPath    string `envconfig:"SEQTAG_CONFIG_PATH" required:"true"`
	ResourcesDir  string `envconfig:"SEQTAG_RESOURCES_DIR" required:"true"`
	RestAPIActive bool   `envconfig:"SEQTAG_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"SEQTAG_REST_API_PORT" default:"10000"`
	WorkerActive  bool   `envconfig:"SEQTAG_WORKER_ACTIVE" default:"true"`
}

const pipelineStartMaxRetries = 5

func main() {
	logger.SetupLogging()
	mainLogger := logger.NewLogger("Main")
	fatalErrLogger := mainLogger.Fatal().Caller()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}
	if !config.RestAPIActive && !config.WorkerActive {
		fatalErrLogger.Msg("Neither the REST API nor the worker is active")
		os.Exit(1)
	}

	// Load Pipeline
	type loaded struct {
		ppln    pipeline.Pipeline
		names   []string
		version string
	}
	pipelineChannel := make(chan loaded)
	go func() {
		for retry := 0; retry < pipelineStartMaxRetries; retry++ {
			cfgs, err := types.LoadConfigurations(config.ConfigPath)
			if err != nil {
				mainLogger.Err(err).Msg("Failed to load configurations. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			mainLogger.Info().Msgf("Loaded %d configurations", len(cfgs))

			resources := &pipeline.Resources{Dir: config.ResourcesDir}
			var bucket *s3client.Client
			if usesBucket(cfgs) {
				bucket, err = s3client.New()
				if err != nil {
					mainLogger.Err(err).Msg("Failed to create S3 client. Retrying in 5 sec")
					time.Sleep(5 * time.Second)
					continue
				}
				resources.Bucket = bucket
			}

			mainLogger.Info().Msg("Starting pipeline loading")
			ppln, err := pipeline.New(cfgs, resources)
			if bucket != nil {
				bucket.Close()
			}
			if err != nil {
				mainLogger.Err(err).Msg("Failed to start tagging pipeline. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}

			names := make([]string, len(cfgs))
			for i, cfg := range cfgs {
				names[i] = cfg.Name
			}
			version := resources.Version()
			mainLogger.Info().Strs("configs", names).Str("models_version", version).Msg("Pipeline loaded")
			pipelineChannel <- loaded{ppln: ppln, names: names, version: version}
			return
		}
		fatalErrLogger.Msgf("Could not start pipeline after %d retries, exiting", pipelineStartMaxRetries)
		os.Exit(1)
	}()

	// block until pipeline loads
	res := <-pipelineChannel

	if config.RestAPIActive {
		serve := func() {
			mainLogger.Info().Msg("Starting API service")
			router := api.NewRouter(&api.Service{Pipeline: res.ppln, Configs: res.names})
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			mainLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, router)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}
		if !config.WorkerActive {
			serve()
			return
		}
		go serve()
	}

	mainLogger.Info().Msg("Start tagging worker")
	for {
		rmqWorker, err := worker.New(res.ppln, res.names, res.version)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			mainLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

// usesBucket reports whether any model or dictionary lives in S3.
func usesBucket(cfgs []types.Configuration) bool {
	for _, cfg := range cfgs {
		locations := []string{cfg.POS.Model, cfg.POS.TagDictionary}
		if cfg.Chunker != nil {
			locations = append(locations, cfg.Chunker.Model)
		}
		for _, nf := range cfg.NameFinders {
			locations = append(locations, nf.Model)
		}
		for _, location := range locations {
			if s3client.IsURI(location) {
				return true
			}
		}
	}
	return false
}
