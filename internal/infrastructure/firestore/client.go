package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient はFirestoreクライアントを作成する
// credentialsFileが空、または存在しない場合はデフォルト認証（Cloud Run、エミュレータ）を使う
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_IDが設定されていません")
	}

	var opts []option.ClientOption
	switch {
	case os.Getenv("FIRESTORE_EMULATOR_HOST") != "":
		log.Info().Str("host", os.Getenv("FIRESTORE_EMULATOR_HOST")).Msg("🧪 Firestoreエミュレータを使用")
	case credentialsFile == "":
		log.Info().Msg("☁️ デフォルト認証を使用")
	default:
		if _, err := os.Stat(credentialsFile); err != nil {
			log.Warn().Str("file", credentialsFile).Msg("⚠️ 認証ファイルが見つからないためデフォルト認証を使用")
		} else {
			log.Info().Str("file", credentialsFile).Msg("📄 認証ファイルを使用")
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	log.Info().Str("project", projectID).Msg("✅ Firestore client initialized")

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
