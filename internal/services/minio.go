package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"veena_crackers_back_end/internal/database"

	"github.com/minio/minio-go/v7"
)

// ArchiveInvoicePDF dépose le PDF de facture dans le bucket MinIO et
// retourne le chemin objet. L'archive n'est pas critique : l'appelant
// logge l'échec et continue.
func ArchiveInvoicePDF(ctx context.Context, orderID string, pdf []byte) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")
	objectName := fmt.Sprintf("invoices/%s.pdf", orderID)

	_, err := database.MinIO.PutObject(ctx, bucket, objectName,
		bytes.NewReader(pdf), int64(len(pdf)),
		minio.PutObjectOptions{ContentType: "application/pdf"})
	if err != nil {
		return "", err
	}

	return objectName, nil
}

// SignedInvoiceURL génère une URL signée à durée limitée vers une facture archivée.
func SignedInvoiceURL(ctx context.Context, objectName string, duration time.Duration) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")
	reqParams := make(url.Values)

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, objectName, duration, reqParams)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
