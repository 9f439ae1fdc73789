// Package s3 fetches TLS certificate material from S3-compatible object
// storage (AWS, Hetzner Object Storage, MinIO).
//
// A local_cert_pattern of the form s3://bucket/prefix selects every object
// under prefix. The endpoint and region come from HOSTKIT_S3_ENDPOINT and
// HOSTKIT_S3_REGION; credentials from AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY or the default AWS credential chain.
package s3
