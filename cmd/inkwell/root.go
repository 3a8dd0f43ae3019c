package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/spf13/cobra"

	"github.com/bobinette/inkwell/auth"
	"github.com/bobinette/inkwell/blob"
	"github.com/bobinette/inkwell/jwt"
	"github.com/bobinette/inkwell/log"
	"github.com/bobinette/inkwell/replica"
	"github.com/bobinette/inkwell/syncer"
)

var (
	// flags
	env     string
	cfgPath string

	// logger
	logger log.Logger

	// wiring
	persistence *blob.Store
	store       *replica.Store
	engine      *syncer.Engine
	encoder     *jwt.EncodeDecoder
	authService *auth.Service
)

type Configuration struct {
	Blob struct {
		Backend string `toml:"backend"`
		Root    string `toml:"root"`
		Bucket  string `toml:"bucket"`
		Region  string `toml:"region"`
		Prefix  string `toml:"prefix"`
	} `toml:"blob"`
	Web struct {
		Addr string `toml:"addr"`
	} `toml:"web"`
	Auth struct {
		Key string `toml:"key"`
	} `toml:"auth"`
}

func init() {
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "")
	RootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the configuration file")
}

var RootCmd = cobra.Command{
	Use:   "inkwell",
	Short: "Collaborative handwriting collection data layer",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path := cfgPath
		if path == "" {
			path = fmt.Sprintf("configuration/config.%s.toml", env)
		}

		cfgData, err := os.ReadFile(path)
		if err != nil {
			fmt.Println("error reading configuration:", err)
			os.Exit(1)
		}

		var cfg Configuration
		err = toml.Unmarshal(cfgData, &cfg)
		if err != nil {
			fmt.Println("error unmarshalling configuration:", err)
			os.Exit(1)
		}

		// Create logger
		logger = log.New(env)

		// Create the blob provider
		var provider blob.Provider
		switch cfg.Blob.Backend {
		case "s3":
			sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Blob.Region)})
			if err != nil {
				logger.Fatal("could not create aws session:", err)
			}
			provider = blob.NewS3Provider(sess, cfg.Blob.Bucket)
		default:
			local, err := blob.NewLocalProvider(cfg.Blob.Root)
			if err != nil {
				logger.Fatal("could not create local blob store:", err)
			}
			provider = local
		}
		persistence = blob.NewStore(provider, cfg.Blob.Prefix)

		// Create the replica and the sync engine
		store = replica.New()
		engine = syncer.New(store, persistence, logger, syncer.NotifierFunc(func(n syncer.Notice) {
			logger.Errorf("sync failed on channel %s: %v", n.Channel, n.Err)
		}))

		// Create the credential service
		encoder = jwt.NewEncodeDecoder([]byte(cfg.Auth.Key))
		authService = auth.NewService(store, engine, persistence, auth.BcryptHasher{})

		webAddr = cfg.Web.Addr
	},
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
