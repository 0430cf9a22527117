package refdata

import "github.com/vegin/skin-analysis-service/internal/core/domain"

// defaultTable covers the sixteen Baumann codes. The letters encode the
// four axes: D/O (dry or oily), S/R (sensitive or resistant), P/N
// (pigmented or non-pigmented), W/T (wrinkle-prone or tight).
func defaultTable() []domain.ClassificationInfo {
	return []domain.ClassificationInfo{
		{
			Code:                  "DSPW",
			Headline:              "수분과 진정이 모두 필요한 피부",
			Description:           "건조하고 민감하며 색소 침착과 주름 케어가 필요한 타입입니다. 보습 장벽 강화와 저자극 진정 관리를 우선하세요.",
			AllowedIngredients:    []string{"세라마이드", "판테놀", "나이아신아마이드", "히알루론산"},
			AllowedRecommendation: "저자극 보습 크림과 장벽 강화 세럼을 아침저녁으로 사용하세요.",
			BlockedIngredients:    []string{"알코올", "인공향료", "고농도 AHA"},
		},
		{
			Code:                  "DSPT",
			Headline:              "건조하고 예민하지만 탄력 있는 피부",
			Description:           "건조함과 민감함, 색소 침착이 고민이지만 주름 저항력은 좋은 타입입니다.",
			AllowedIngredients:    []string{"세라마이드", "알부틴", "판테놀"},
			AllowedRecommendation: "보습과 미백 기능이 함께 있는 저자극 제품을 선택하세요.",
			BlockedIngredients:    []string{"알코올", "고농도 레티놀"},
		},
		{
			Code:                  "DSNW",
			Headline:              "속당김과 잔주름이 고민인 피부",
			Description:           "건조하고 민감하며 주름이 생기기 쉬운 타입입니다. 색소 고민은 적습니다.",
			AllowedIngredients:    []string{"세라마이드", "펩타이드", "스쿠알란"},
			AllowedRecommendation: "유수분을 함께 채우는 크림과 저자극 안티에이징 세럼을 사용하세요.",
			BlockedIngredients:    []string{"알코올", "인공향료"},
		},
		{
			Code:                  "DSNT",
			Headline:              "건조하지만 트러블은 적은 피부",
			Description:           "건조하고 민감하지만 색소와 주름 고민이 적은 타입입니다. 보습 중심의 단순한 루틴이 맞습니다.",
			AllowedIngredients:    []string{"히알루론산", "세라마이드", "판테놀"},
			AllowedRecommendation: "성분이 단순한 고보습 제품으로 루틴을 최소화하세요.",
			BlockedIngredients:    []string{"인공향료", "에센셜 오일"},
		},
		{
			Code:                  "DRPW",
			Headline:              "탄탄하지만 기미와 주름이 고민인 피부",
			Description:           "건조하고 저항성이 좋지만 색소 침착과 주름이 쉽게 생기는 타입입니다.",
			AllowedIngredients:    []string{"레티놀", "비타민C", "나이아신아마이드"},
			AllowedRecommendation: "미백과 주름 개선 기능성 제품을 적극적으로 사용해도 좋습니다.",
			BlockedIngredients:    []string{"과도한 피지 제거 성분"},
		},
		{
			Code:                  "DRPT",
			Headline:              "건조함과 색소 침착이 고민인 피부",
			Description:           "건조하지만 자극에 강하고 주름 저항력이 좋은 타입입니다. 색소 관리가 핵심입니다.",
			AllowedIngredients:    []string{"비타민C", "알부틴", "히알루론산"},
			AllowedRecommendation: "미백 세럼과 자외선 차단제를 꾸준히 사용하세요.",
			BlockedIngredients:    []string{"과도한 각질 제거 성분"},
		},
		{
			Code:                  "DRNW",
			Headline:              "주름 케어가 필요한 건조 피부",
			Description:           "건조하고 주름이 생기기 쉽지만 자극과 색소 고민은 적은 타입입니다.",
			AllowedIngredients:    []string{"레티놀", "펩타이드", "세라마이드"},
			AllowedRecommendation: "안티에이징 성분을 중심으로 보습을 더하세요.",
			BlockedIngredients:    []string{"알코올"},
		},
		{
			Code:                  "DRNT",
			Headline:              "보습만 챙기면 되는 무난한 피부",
			Description:           "건조하지만 민감하지 않고 색소와 주름 고민도 적은 타입입니다.",
			AllowedIngredients:    []string{"히알루론산", "글리세린"},
			AllowedRecommendation: "가벼운 보습 제품으로 충분합니다.",
			BlockedIngredients:    []string{},
		},
		{
			Code:                  "OSPW",
			Headline:              "번들거림과 자극이 함께 오는 피부",
			Description:           "지성이면서 민감하고 색소 침착과 주름 고민이 모두 있는 타입입니다.",
			AllowedIngredients:    []string{"나이아신아마이드", "아연", "녹차 추출물"},
			AllowedRecommendation: "피지 조절과 진정을 동시에 하는 가벼운 제형을 사용하세요.",
			BlockedIngredients:    []string{"무거운 오일", "알코올", "코메도제닉 성분"},
		},
		{
			Code:                  "OSPT",
			Headline:              "트러블 자국이 쉽게 남는 지성 피부",
			Description:           "지성이고 민감하며 색소 침착이 잘 생기지만 주름 저항력은 좋은 타입입니다.",
			AllowedIngredients:    []string{"나이아신아마이드", "아젤라익애씨드", "판테놀"},
			AllowedRecommendation: "진정과 미백을 겸한 수분 젤 타입 제품이 잘 맞습니다.",
			BlockedIngredients:    []string{"무거운 오일", "인공향료"},
		},
		{
			Code:                  "OSNW",
			Headline:              "자극에 약한 지성 노화 피부",
			Description:           "지성이면서 민감하고 주름이 생기기 쉬운 타입입니다.",
			AllowedIngredients:    []string{"바쿠치올", "판테놀", "히알루론산"},
			AllowedRecommendation: "저자극 안티에이징 성분과 가벼운 보습을 함께 사용하세요.",
			BlockedIngredients:    []string{"고농도 레티놀", "알코올"},
		},
		{
			Code:                  "OSNT",
			Headline:              "유분과 트러블 관리가 핵심인 피부",
			Description:           "지성이고 민감하지만 색소와 주름 고민은 적은 타입입니다. 피지와 트러블 관리가 핵심입니다.",
			AllowedIngredients:    []string{"살리실산", "아연", "티트리 추출물"},
			AllowedRecommendation: "논코메도제닉 수분 제품과 순한 각질 관리를 병행하세요.",
			BlockedIngredients:    []string{"무거운 오일", "인공향료"},
		},
		{
			Code:                  "ORPW",
			Headline:              "튼튼하지만 노화 관리가 필요한 지성 피부",
			Description:           "지성이고 자극에 강하지만 색소 침착과 주름이 쉽게 생기는 타입입니다.",
			AllowedIngredients:    []string{"레티놀", "비타민C", "나이아신아마이드"},
			AllowedRecommendation: "기능성 성분을 적극 사용하되 가벼운 제형을 선택하세요.",
			BlockedIngredients:    []string{"무거운 오일"},
		},
		{
			Code:                  "ORPT",
			Headline:              "색소 침착만 잡으면 되는 지성 피부",
			Description:           "지성이고 저항성이 좋으며 주름 고민이 적은 타입입니다. 색소 관리에 집중하세요.",
			AllowedIngredients:    []string{"비타민C", "알부틴", "트라넥사믹애씨드"},
			AllowedRecommendation: "미백 세럼과 매일 자외선 차단제를 사용하세요.",
			BlockedIngredients:    []string{"무거운 오일"},
		},
		{
			Code:                  "ORNW",
			Headline:              "주름 예방이 필요한 튼튼한 지성 피부",
			Description:           "지성이고 자극과 색소 고민은 적지만 주름이 생기기 쉬운 타입입니다.",
			AllowedIngredients:    []string{"레티놀", "펩타이드"},
			AllowedRecommendation: "가벼운 안티에이징 세럼을 저녁 루틴에 더하세요.",
			BlockedIngredients:    []string{"무거운 오일"},
		},
		{
			Code:                  "ORNT",
			Headline:              "균형 잡힌 건강한 피부",
			Description:           "유분 균형이 좋고 자극, 색소, 주름 고민이 모두 적은 타입입니다. 현재 상태 유지가 목표입니다.",
			AllowedIngredients:    []string{"히알루론산", "나이아신아마이드"},
			AllowedRecommendation: "기본 보습과 자외선 차단만 꾸준히 유지하세요.",
			BlockedIngredients:    []string{},
		},
	}
}
