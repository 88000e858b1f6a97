package model

// RankNotFound 結果リスト内にビジネスが見つからなかったことを示す番兵値
const RankNotFound = -1

// EarthRadiusKm 距離計算で使用する地球半径（km）
const EarthRadiusKm = 6371.0

// RankSource グリッド結果の順位がどこから来たかを表す
type RankSource string

const (
	RankSourceMeasured  RankSource = "measured"  // プロバイダへの実測
	RankSourceEstimated RankSource = "estimated" // 距離減衰による推定値（近似）
	RankSourceNone      RankSource = "none"      // シード取得失敗によりデータなし
)

// AuditMode グリッド全体の順位をどう求めるか
type AuditMode string

const (
	AuditModeSimulated AuditMode = "simulated"
	AuditModeMeasured  AuditMode = "measured"
)

// SeedStrategy 中心のシード計測に使った方法
type SeedStrategy string

const (
	SeedStrategyCoordinate   SeedStrategy = "coordinate"
	SeedStrategyLocationName SeedStrategy = "location_name"
	SeedStrategyNone         SeedStrategy = "none"
)

// DefaultLocationName 位置名が解決できない場合の既定ロケーション
const DefaultLocationName = "United States"

// GetAllAuditModes は利用可能な監査モードの一覧を取得する
func GetAllAuditModes() []AuditMode {
	return []AuditMode{
		AuditModeSimulated,
		AuditModeMeasured,
	}
}

// IsValidAuditMode は監査モードが有効かどうかを判定する
func IsValidAuditMode(mode AuditMode) bool {
	for _, m := range GetAllAuditModes() {
		if m == mode {
			return true
		}
	}
	return false
}
