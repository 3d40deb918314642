package tests

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage    = "postgres:15-alpine"
	postgresUser     = "postgres"
	postgresPassword = "postgres"
	postgresDatabase = "products"

	postgresPort nat.Port = "5432/tcp"
)

// LocalTestFixture runs a throwaway postgres container. With
// SKIP_INFRASTRUCTURE=true it uses DATABASE_URL from the environment.
type LocalTestFixture struct {
	container   testcontainers.Container
	databaseURL string
}

func NewLocalTestFixture() *LocalTestFixture {
	return &LocalTestFixture{}
}

func (f *LocalTestFixture) Start(ctx context.Context) error {
	if skip := os.Getenv("SKIP_INFRASTRUCTURE"); skip == "true" {
		f.databaseURL = os.Getenv("DATABASE_URL")
		return nil
	}

	request := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{string(postgresPort)},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDatabase,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: request,
		Started:          true,
	})
	if err != nil {
		return err
	}
	f.container = container

	host, err := container.Host(ctx)
	if err != nil {
		return err
	}

	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		return err
	}

	f.databaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser,
		postgresPassword,
		host,
		port.Port(),
		postgresDatabase,
	)

	return nil
}

func (f *LocalTestFixture) DatabaseURL() string {
	return f.databaseURL
}

func (f *LocalTestFixture) Stop(ctx context.Context) error {
	if f.container == nil {
		return nil
	}

	return f.container.Terminate(ctx)
}
