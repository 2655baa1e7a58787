package aws

import (
	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Clients bundles the region-scoped service clients built from one
// federated credential set. The bundle lives exactly as long as the
// request that asked for it.
type Clients struct {
	STS STSAPI
	EC2 EC2API
	RDS RDSAPI
	S3  S3API
}

// ClientFactory turns federated credentials into service clients.
type ClientFactory interface {
	ForCredentials(creds *Credentials) *Clients
}

// SDKClientFactory builds real SDK clients from static temporary
// credentials.
type SDKClientFactory struct{}

// NewClientFactory returns the default SDK-backed factory.
func NewClientFactory() *SDKClientFactory {
	return &SDKClientFactory{}
}

// ForCredentials builds clients pinned to the credentials' region.
func (f *SDKClientFactory) ForCredentials(creds *Credentials) *Clients {
	cfg := awssdk.Config{
		Region: creds.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.SecretAccessKey,
			creds.SessionToken,
		),
		RetryMaxAttempts: 3,
	}

	return &Clients{
		STS: sts.NewFromConfig(cfg),
		EC2: ec2.NewFromConfig(cfg),
		RDS: rds.NewFromConfig(cfg),
		S3:  s3.NewFromConfig(cfg),
	}
}
