package s3

import (
	"testing"

	"erp-portal/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientUsesRegion(t *testing.T) {
	client, err := NewClient(&config.AWSConfig{
		Region:          "eu-central-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-central-1", aws.StringValue(client.Config.Region))

	creds, err := client.Config.Credentials.Get()
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
}
