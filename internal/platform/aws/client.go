package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/controltower"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// DefaultSessionName is the role session name used when assuming a role.
const DefaultSessionName = "lzctl"

// Options selects where clients get their region and credentials from.
type Options struct {
	Region        string // empty uses AWS_REGION / shared config
	Profile       string // shared config profile
	AssumeRoleARN string // role to assume before calling any API
	SessionName   string
}

// Clients groups the service clients lzctl talks to.
type Clients struct {
	Config        awssdk.Config
	ControlTower  *controltower.Client
	Organizations *organizations.Client
	S3            *s3.Client
}

// NewClients loads the AWS configuration and creates all service clients.
func NewClients(ctx context.Context, opts Options) (*Clients, error) {
	cfg, err := LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Config:        cfg,
		ControlTower:  controltower.NewFromConfig(cfg),
		Organizations: organizations.NewFromConfig(cfg),
		S3:            s3.NewFromConfig(cfg),
	}, nil
}

// LoadConfig resolves the SDK configuration for opts.
func LoadConfig(ctx context.Context, opts Options) (awssdk.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if opts.AssumeRoleARN != "" {
		sessionName := opts.SessionName
		if sessionName == "" {
			sessionName = DefaultSessionName
		}
		provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), opts.AssumeRoleARN,
			func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = sessionName
			})
		cfg.Credentials = awssdk.NewCredentialsCache(provider)
	}

	if cfg.Region == "" {
		return awssdk.Config{}, fmt.Errorf("no AWS region configured: set --region, AWS_REGION, or a profile region")
	}

	return cfg, nil
}
