package user

import "context"

// ProfileRepository ユーザープロフィールのリポジトリ
type ProfileRepository interface {
	// FindByUserID ユーザーIDで取得する。見つからない場合はErrProfileNotFound
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	// Save プロフィールを保存する（存在しなければ作成する）
	Save(ctx context.Context, p *Profile) error
	// ListUserIDs ユーザーIDの一覧を最大limit件取得する（統計サンプリング用）
	ListUserIDs(ctx context.Context, limit int) ([]string, error)
	// Count 総ユーザー数を取得する
	Count(ctx context.Context) (int64, error)
}
