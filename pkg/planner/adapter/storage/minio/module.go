package minio

import "go.uber.org/fx"

// Module contributes the MinIO provider to the storage_providers group.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewMinioProvider,
		fx.ResultTags(`group:"storage_providers"`),
	)),
)
