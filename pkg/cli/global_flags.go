package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sgaunet/s3dfs/pkg/config"
)

// EnvPrefix prefixes the environment variables read in place of the global flags,
// e.g. S3DFS_ACCESS_KEY for --access-key.
const EnvPrefix = "S3DFS"

const (
	flagConfig      = "config"
	flagProvider    = "provider"
	flagBucket      = "bucket"
	flagAccessKey   = "access-key"
	flagSecretKey   = "secret-key"
	flagEndpoint    = "endpoint"
	flagRegion      = "region"
	flagRoot        = "root"
	flagProfile     = "profile"
	flagLogLevel    = "log-level"
	flagMetricsFile = "metrics-file"
)

// addGlobalFlags adds the persistent connection flags to the root command and binds them to v.
func addGlobalFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.StringP(flagConfig, "c", "", "Configuration file (YAML)")
	flags.String(flagProvider, "", "Storage provider: oss, s3, minio or fs (default s3)")
	flags.String(flagBucket, "", "Bucket name")
	flags.String(flagAccessKey, "", "Access key id")
	flags.String(flagSecretKey, "", "Access key secret")
	flags.String(flagEndpoint, "", "Custom endpoint, e.g. http://localhost:9000 for MinIO")
	flags.String(flagRegion, "", "Region of the bucket")
	flags.String(flagRoot, "", "Root directory of the fs provider")
	flags.String(flagProfile, "", "AWS shared config profile")
	flags.String(flagLogLevel, "", "Log level: debug, info, warn or error (default info)")
	flags.String(flagMetricsFile, "", "Write Prometheus metrics of the run to this file")

	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// resolveConfig merges the configuration file, the environment and the flags.
// Values of the file are registered as viper defaults so that env and flags win.
func resolveConfig(v *viper.Viper) (config.Config, error) {
	if filename := v.GetString(flagConfig); filename != "" {
		fileCfg, err := config.ReadYamlCnxFile(filename)
		if err != nil {
			return config.Config{}, fmt.Errorf("error reading configuration file: %w", err)
		}
		v.SetDefault(flagProvider, fileCfg.Provider)
		v.SetDefault(flagBucket, fileCfg.Bucket)
		v.SetDefault(flagAccessKey, fileCfg.AccessKey)
		v.SetDefault(flagSecretKey, fileCfg.SecretKey)
		v.SetDefault(flagEndpoint, fileCfg.Endpoint)
		v.SetDefault(flagRegion, fileCfg.Region)
		v.SetDefault(flagRoot, fileCfg.RootPath)
		v.SetDefault(flagProfile, fileCfg.Profile)
		v.SetDefault(flagLogLevel, fileCfg.LogLevel)
	}

	return config.Config{
		Provider:  v.GetString(flagProvider),
		Bucket:    v.GetString(flagBucket),
		AccessKey: v.GetString(flagAccessKey),
		SecretKey: v.GetString(flagSecretKey),
		Endpoint:  v.GetString(flagEndpoint),
		Region:    v.GetString(flagRegion),
		RootPath:  v.GetString(flagRoot),
		Profile:   v.GetString(flagProfile),
		LogLevel:  v.GetString(flagLogLevel),
	}, nil
}
