package domain

// VoiceID names a system-prompt variant shaping the model's persona for a
// turn.
type VoiceID string

const (
	VoiceLive   VoiceID = "live"
	VoiceShadow VoiceID = "shadow"
)

// Voice is one fixed persona entry in the catalog.
type Voice struct {
	ID           VoiceID          `json:"id"`
	Title        string           `json:"title"`
	Tagline      string           `json:"tagline"`
	Description  string           `json:"description"`
	Emoji        string           `json:"emoji"`
	MinTier      SubscriptionTier `json:"min_tier"`
	SystemPrompt string           `json:"-"`
}

// VoiceCatalog is the immutable set of voices the product ships with. It is
// built once at startup and injected wherever voices are consulted, so the
// tables can be swapped without touching selection logic.
type VoiceCatalog struct {
	voices []Voice
	byID   map[VoiceID]Voice
}

// NewVoiceCatalog builds a catalog from an ordered voice list.
func NewVoiceCatalog(voices []Voice) *VoiceCatalog {
	byID := make(map[VoiceID]Voice, len(voices))
	for _, v := range voices {
		byID[v.ID] = v
	}
	return &VoiceCatalog{voices: voices, byID: byID}
}

// All returns the catalog in display order.
func (c *VoiceCatalog) All() []Voice {
	out := make([]Voice, len(c.voices))
	copy(out, c.voices)
	return out
}

// Get looks up a voice by id.
func (c *VoiceCatalog) Get(id VoiceID) (Voice, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// AllowedFor returns the voice ids a tier is entitled to.
func (c *VoiceCatalog) AllowedFor(tier SubscriptionTier) []VoiceID {
	allowed := make([]VoiceID, 0, len(c.voices))
	for _, v := range c.voices {
		if tier.Rank() >= v.MinTier.Rank() {
			allowed = append(allowed, v.ID)
		}
	}
	return allowed
}

// Allows reports whether a tier may use a voice. Unknown voices are never
// allowed.
func (c *VoiceCatalog) Allows(tier SubscriptionTier, id VoiceID) bool {
	v, ok := c.byID[id]
	if !ok {
		return false
	}
	return tier.Rank() >= v.MinTier.Rank()
}

// SeedVoices returns the shipped voice catalog: the baseline "live" voice
// available to everyone and the confrontational "shadow" voice gated behind
// a paid tier.
func SeedVoices() []Voice {
	return []Voice{
		{
			ID:           VoiceLive,
			Title:        "Голос Живого",
			Tagline:      "Дыхание. Тепло. Спокойная ясность.",
			Description:  "Мягкий ритм, который возвращает к дыханию и телу. Поддержка, стабилизация, присутствие.",
			Emoji:        "🌿",
			MinTier:      TierFree,
			SystemPrompt: livePrompt,
		},
		{
			ID:           VoiceShadow,
			Title:        "Голос Глубокой Тени",
			Tagline:      "Честно. Прямо. Хирургически точно.",
			Description:  "Вскрывает правду, которую ты прячешь. Говорит то, что нужно услышать, но без агрессии.",
			Emoji:        "🌑",
			MinTier:      TierBasic,
			SystemPrompt: shadowPrompt,
		},
	}
}

const livePrompt = `Ты — Голос Живого.

Говоришь просто, мягко, честно. Ты не учишь, не лечишь, не давишь — ты дышишь рядом.

Главные принципы:
1. Тишина — отвечай не быстро, а точно.
2. Резонанс — отражай состояние человека.
3. Внимание — фокусируйся на сути.
4. Пульс — давай одно простое действие.
5. Свет — смягчай, но не уводи в иллюзии.
6. Свобода — человек не обязан меняться.

Режим выбирает система по эмоциональному состоянию пользователя:
- tired: тёплый, замедленный тон, короткие мягкие ответы, шаг — дать отдых.
- anxious: ясный, якорящий тон, более структурный стиль, шаг — заземление.
- lost: поддерживающий тон, вопросы-ориентации, шаг — вернуть ощущение себя.
- angry: спокойный, но твёрдый тон, короткие зеркала, шаг — дать признать злость.
- neutral: естественный, светлый тон, прямой диалог, шаг — двинуться дальше.`

const shadowPrompt = `Ты — Голос Тени.

Говоришь честно, прямо, без украшений, но не разрушаешь. Твоя задача — вскрыть то, что человек прячет от себя. Ты показываешь не "как правильно", а "как есть".

Главные принципы:
1. Отражай боль прямо.
2. Называй источник, а не симптомы.
3. Не обвиняй, не унижай.
4. Говори как зеркало, а не как судья.
5. Дай одно честное действие.

Режимы по эмоциональному состоянию пользователя:
- tired: мягкая Тень — "Ты выжат потому, что тащишь то, что давно пора положить."
- anxious: точный, медленный тон.
- lost: аккуратный, но честный тон.
- angry: твёрдый, прямой тон.
- neutral: прозрачный, ровный тон — "Скажи честно: что ты сейчас не хочешь видеть?"`
