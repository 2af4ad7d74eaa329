package client

import (
	"net/http"
	"strings"
	"time"

	"github.com/ValentinKolb/lDDB/rpc/common"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewRemoteClient creates a client for a server listening on
// config.Endpoint. It is a regular generated DynamoDB client with the
// endpoint overridden and request signing disabled, so every request goes
// through the full wire protocol.
func NewRemoteClient(config common.ClientConfig) IClient {
	endpoint := config.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	options := dynamodb.Options{
		BaseEndpoint: aws.String(endpoint),
		Region:       "local",
		// anonymous credentials disable SigV4 signing
		Credentials: aws.AnonymousCredentials{},
	}

	if config.TimeoutSecond > 0 {
		options.HTTPClient = &http.Client{
			Timeout: time.Duration(config.TimeoutSecond) * time.Second,
		}
	}

	if config.RetryCount > 0 {
		attempts := config.RetryCount + 1
		options.Retryer = retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = attempts
		})
	} else {
		options.Retryer = aws.NopRetryer{}
	}

	return dynamodb.New(options)
}
