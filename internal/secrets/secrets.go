// Package secrets resolves the database DSN from AWS Secrets Manager when
// deployed, instead of a plaintext DATABASE_URL. Grounded on the teacher's
// internal/server.InitializeHandlers AWS branch, generalized into a
// standalone helper any composition root can call.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type rdsCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResolveDatabaseURL fetches a JSON {username,password} secret from Secrets
// Manager and assembles a postgres DSN from it plus the given host/db/sslmode,
// mirroring the shape RDS-managed secrets use.
func ResolveDatabaseURL(ctx context.Context, secretArn, host, dbName, sslMode string) (string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("secrets: load aws config: %w", err)
	}

	svc := secretsmanager.NewFromConfig(awsCfg)
	result, err := svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &secretArn})
	if err != nil {
		return "", fmt.Errorf("secrets: fetch secret %s: %w", secretArn, err)
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secrets: secret %s has no string value", secretArn)
	}

	var creds rdsCredentials
	if err := json.Unmarshal([]byte(*result.SecretString), &creds); err != nil {
		return "", fmt.Errorf("secrets: unmarshal secret %s: %w", secretArn, err)
	}
	if creds.Username == "" || creds.Password == "" {
		return "", fmt.Errorf("secrets: secret %s missing username or password", secretArn)
	}

	if sslMode == "" {
		sslMode = "require"
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s", creds.Username, creds.Password, host, dbName, sslMode), nil
}
