package topic

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/topicgap/internal/core/domain"
	"github.com/custodia-labs/topicgap/internal/core/llmjson"
	"github.com/custodia-labs/topicgap/internal/core/ports/driven"
	"github.com/custodia-labs/topicgap/internal/core/prompts"
	"github.com/custodia-labs/topicgap/internal/logger"
)

const (
	// minCandidateScore is the best score below which body phrases are
	// mined as a last resort.
	minCandidateScore = 0.15

	// namedEntityBoost is added to Person and Organization candidates that
	// appear in the title or a heading.
	namedEntityBoost = 0.15

	fallbackConfidence = 0.3
	maxSubEntities     = 5
	promptBodyLimit    = 2000
	fallbackPhrases    = 10
)

// SourceWeight is the score and confidence contribution of one page element.
type SourceWeight struct {
	Source     domain.TopicSource
	Score      float64
	Confidence float64
}

// DefaultSourceWeights lists page elements from most to least trusted.
var DefaultSourceWeights = []SourceWeight{
	{Source: domain.SourceTitle, Score: 0.30, Confidence: 0.40},
	{Source: domain.SourceMeta, Score: 0.25, Confidence: 0.25},
	{Source: domain.SourceHeading, Score: 0.20, Confidence: 0.20},
	{Source: domain.SourceURL, Score: 0.07, Confidence: 0.10},
	{Source: domain.SourceBody, Score: 0.05, Confidence: 0.05},
}

var combinedPattern = regexp.MustCompile(`(?i)^(.+?)\s+(for|in|with)\s+(.+)$`)

// Config configures a Detector.
type Config struct {
	// LLM enables the model-assisted pass. Nil runs the heuristic only.
	LLM driven.LLMService

	// Prompts overrides the embedded primary_topic prompt.
	Prompts driven.PromptStore

	// Rules is the entity type table. Nil uses DefaultEntityRules.
	Rules []EntityRule
}

// Detector finds the primary topic of a scraped page.
type Detector struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	classify *Classifier
}

// NewDetector creates a detector.
func NewDetector(cfg Config) *Detector {
	return &Detector{
		llm:      cfg.LLM,
		prompts:  cfg.Prompts,
		classify: NewClassifier(cfg.Rules),
	}
}

// llmTopic is the object the primary_topic prompt asks for.
type llmTopic struct {
	Entity     string  `json:"entity"`
	EntityType string  `json:"entityType"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Detect returns the primary topic of doc. The heuristic pass always runs;
// when an LLM is configured its answer is preferred unless it names an
// organisation and a more confident local concept or service exists.
// LLM request and parse failures fall back to the heuristic answer.
func (d *Detector) Detect(ctx context.Context, doc *domain.ScrapedDocument) (*domain.PrimaryTopic, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	set := d.candidates(doc)
	heuristic := d.pick(doc, set)
	if heuristic == nil {
		heuristic = Fallback(doc)
	}
	if d.llm == nil {
		return heuristic, nil
	}

	answer, err := d.ask(ctx, doc)
	if err != nil {
		logger.Debug("topic: LLM detection failed, using heuristic: %v", err)
		return heuristic, nil
	}
	return d.merge(doc, set, answer), nil
}

// DetectSafe is Detect with a guaranteed answer: errors and panics yield
// the low-confidence Fallback topic.
func (d *Detector) DetectSafe(ctx context.Context, doc *domain.ScrapedDocument) (topic *domain.PrimaryTopic) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("topic: detection panicked: %v", r)
			topic = Fallback(doc)
		}
	}()
	t, err := d.Detect(ctx, doc)
	if err != nil {
		logger.Warn("topic: detection failed: %v", err)
		return Fallback(doc)
	}
	return t
}

// Heuristic runs the candidate scoring pass alone.
func (d *Detector) Heuristic(doc *domain.ScrapedDocument) *domain.PrimaryTopic {
	if doc == nil {
		return Fallback(nil)
	}
	if t := d.pick(doc, d.candidates(doc)); t != nil {
		return t
	}
	return Fallback(doc)
}

// Fallback builds a low-confidence concept from the first three title
// words, the domain name, or "Unknown".
func Fallback(doc *domain.ScrapedDocument) *domain.PrimaryTopic {
	entity := "Unknown"
	if doc != nil {
		var words []string
		for _, f := range strings.Fields(doc.Title) {
			if len(words) < 3 && trimWord(f) != "" {
				words = append(words, f)
			}
		}
		if len(words) > 0 {
			entity = strings.Join(words, " ")
		} else if brand := BrandName(doc.URL); brand != "" {
			entity = brand
		}
	}
	return &domain.PrimaryTopic{
		Entity:      entity,
		Confidence:  fallbackConfidence,
		EntityType:  domain.EntityConcept,
		Source:      domain.SourceTitle,
		SubEntities: []string{},
	}
}

func (d *Detector) ask(ctx context.Context, doc *domain.ScrapedDocument) (*llmTopic, error) {
	prompt, err := prompts.Load(d.prompts, driven.PromptPrimaryTopic, prompts.TopicData{
		Title:    doc.Title,
		Meta:     doc.MetaDescription,
		Headings: doc.HeadingTexts(),
		URL:      doc.URL,
		Body:     truncateRunes(doc.BodyText, promptBodyLimit),
	})
	if err != nil {
		return nil, err
	}
	raw, err := d.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 300, Temperature: 0.2})
	if err != nil {
		return nil, err
	}
	res := llmjson.Parse[llmTopic](raw)
	if !res.OK() {
		return nil, res.Err
	}
	if strings.TrimSpace(res.Value.Entity) == "" {
		return nil, fmt.Errorf("%w: empty entity", domain.ErrInvalidInput)
	}
	return &res.Value, nil
}

// merge turns an LLM answer into a topic, overriding an organisation with a
// more confident local concept or service candidate.
func (d *Detector) merge(doc *domain.ScrapedDocument, set *candidateSet, answer *llmTopic) *domain.PrimaryTopic {
	entity := collapse(answer.Entity)
	etype := domain.ParseEntityType(answer.EntityType)
	confidence := clamp01(answer.Confidence)

	if etype == domain.EntityOrganization {
		for _, c := range set.ranked() {
			if c.urlOnly() || (c.etype != domain.EntityConcept && c.etype != domain.EntityService) {
				continue
			}
			if conf := c.confidence(); conf > confidence {
				logger.Debug("topic: preferring %q (%.2f) over organisation %q (%.2f)", c.text, conf, entity, confidence)
				return d.topicFor(set, c)
			}
		}
	}

	source := domain.SourceBody
	if c, ok := set.byKey[strings.ToLower(entity)]; ok {
		source = c.primarySource()
	} else if containsFold(doc.Title, entity) {
		source = domain.SourceTitle
	} else if containsFold(doc.MetaDescription, entity) {
		source = domain.SourceMeta
	}
	return &domain.PrimaryTopic{
		Entity:        entity,
		Confidence:    round2(confidence),
		EntityType:    etype,
		Source:        source,
		SubEntities:   set.subEntities(strings.ToLower(entity)),
		CombinedTopic: set.combined(entity),
	}
}

// candidates builds the weighted candidate set for doc.
func (d *Detector) candidates(doc *domain.ScrapedDocument) *candidateSet {
	set := newCandidateSet()

	// Segments come first so a brand segment outranks the full title on ties.
	title := append(titleSegments(doc.Title), wholeText(doc.Title)...)
	set.addAll(domain.SourceTitle, extract(title, doc.Title))
	set.addAll(domain.SourceMeta, extract(wholeText(doc.MetaDescription), doc.MetaDescription))

	var headings []string
	for _, h := range doc.HeadingTexts() {
		headings = append(headings, extract(wholeText(h), h)...)
	}
	set.addAll(domain.SourceHeading, headings)

	set.addAll(domain.SourceURL, urlCandidates(doc.URL))

	body := truncateRunes(doc.BodyText, bodyScanLimit)
	set.addAll(domain.SourceBody, extract(wholeText(body), body))

	lowerBody := strings.ToLower(doc.BodyText)
	set.score(d.classify, lowerBody)
	if set.best() < minCandidateScore {
		var mined []string
		for _, p := range FrequentPhrases(doc.BodyText, 2, fallbackPhrases) {
			mined = append(mined, p.Text)
		}
		if len(mined) > 0 {
			set.addAll(domain.SourceBody, mined)
			set.score(d.classify, lowerBody)
		}
	}
	return set
}

func extract(whole []string, text string) []string {
	out := append([]string{}, whole...)
	out = append(out, capitalisedRuns(text)...)
	return append(out, capitalisedNgrams(text)...)
}

// pick selects the winning candidate and builds the topic from it.
func (d *Detector) pick(doc *domain.ScrapedDocument, set *candidateSet) *domain.PrimaryTopic {
	ranked := set.ranked()
	if len(ranked) == 0 {
		return nil
	}

	winner := ranked[0]
	for _, c := range ranked {
		if c.structural() {
			winner = c
			break
		}
	}

	if isDomainCandidate(winner.key, doc.URL) {
		brand := BrandName(doc.URL)
		if brand == "" {
			return d.topicFor(set, winner)
		}
		target := squash(brand)
		for _, c := range ranked {
			if !c.urlOnly() && squash(c.text) == target {
				return d.topicFor(set, c)
			}
		}
		conf := 0.1
		if len(strings.Fields(brand)) > 1 {
			conf += 0.1
		}
		return &domain.PrimaryTopic{
			Entity:        brand,
			Confidence:    round2(conf),
			EntityType:    domain.EntityOrganization,
			Source:        domain.SourceURL,
			SubEntities:   set.subEntities(strings.ToLower(brand)),
			CombinedTopic: set.combined(brand),
		}
	}
	return d.topicFor(set, winner)
}

func (d *Detector) topicFor(set *candidateSet, c *candidate) *domain.PrimaryTopic {
	return &domain.PrimaryTopic{
		Entity:        c.text,
		Confidence:    c.confidence(),
		EntityType:    c.etype,
		Source:        c.primarySource(),
		SubEntities:   set.subEntities(c.key),
		CombinedTopic: set.combined(c.text),
	}
}

// isDomainCandidate reports whether key is the page URL, its host or the
// host's brand label.
func isDomainCandidate(key, pageURL string) bool {
	pageURL = strings.TrimSpace(pageURL)
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	label := hostLabel(host)
	switch key {
	case strings.ToLower(pageURL), host, strings.TrimPrefix(host, "www."), label,
		strings.Join(splitSlug(label), " "):
		return true
	}
	return false
}

type candidate struct {
	text    string
	key     string
	base    float64
	score   float64
	freq    int
	order   int
	etype   domain.EntityType
	sources map[domain.TopicSource]bool
}

func (c *candidate) structural() bool {
	for s := range c.sources {
		if s.IsStructural() {
			return true
		}
	}
	return false
}

func (c *candidate) urlOnly() bool {
	return len(c.sources) == 1 && c.sources[domain.SourceURL]
}

func (c *candidate) primarySource() domain.TopicSource {
	for _, w := range DefaultSourceWeights {
		if c.sources[w.Source] {
			return w.Source
		}
	}
	return domain.SourceBody
}

func (c *candidate) confidence() float64 {
	conf := 0.0
	for _, w := range DefaultSourceWeights {
		if c.sources[w.Source] {
			conf += w.Confidence
		}
	}
	conf += 0.2 * frequencyFactor(c.freq)
	if len(strings.Fields(c.text)) > 1 {
		conf += 0.1
	}
	return round2(math.Min(conf, 1))
}

type candidateSet struct {
	byKey map[string]*candidate
	list  []*candidate
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byKey: make(map[string]*candidate)}
}

// addAll adds texts found in source. Each distinct text scores once per source.
func (s *candidateSet) addAll(source domain.TopicSource, texts []string) {
	weight := 0.0
	for _, w := range DefaultSourceWeights {
		if w.Source == source {
			weight = w.Score
		}
	}
	for _, text := range texts {
		text = collapse(text)
		if text == "" {
			continue
		}
		key := strings.ToLower(text)
		c, ok := s.byKey[key]
		if !ok {
			c = &candidate{
				text:    text,
				key:     key,
				order:   len(s.list),
				sources: make(map[domain.TopicSource]bool),
			}
			s.byKey[key] = c
			s.list = append(s.list, c)
		}
		if c.sources[source] {
			continue
		}
		c.sources[source] = true
		c.base += weight
	}
}

// score applies entity boosts and body frequency to every candidate.
func (s *candidateSet) score(cl *Classifier, lowerBody string) {
	for _, c := range s.list {
		c.etype = cl.Classify(c.text)
		c.freq = countPhrase(lowerBody, c.key)
		c.score = c.base + 0.05*frequencyFactor(c.freq)
		named := c.etype == domain.EntityPerson || c.etype == domain.EntityOrganization
		if named && (c.sources[domain.SourceTitle] || c.sources[domain.SourceHeading]) {
			c.score += namedEntityBoost
		}
	}
}

func (s *candidateSet) best() float64 {
	best := 0.0
	for _, c := range s.list {
		best = math.Max(best, c.score)
	}
	return best
}

// ranked returns candidates by descending score, earliest first on ties.
func (s *candidateSet) ranked() []*candidate {
	out := append([]*candidate{}, s.list...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}

func (s *candidateSet) subEntities(exclude string) []string {
	out := []string{}
	for _, c := range s.ranked() {
		if len(out) == maxSubEntities {
			break
		}
		if c.key == exclude || c.urlOnly() {
			continue
		}
		out = append(out, c.text)
	}
	return out
}

// combined finds an "X for Y" style candidate, else joins the entity with
// the runner-up when they share no words.
func (s *candidateSet) combined(entity string) string {
	ranked := s.ranked()
	for _, c := range ranked {
		if !c.urlOnly() && combinedPattern.MatchString(c.text) {
			return c.text
		}
	}
	words := make(map[string]bool)
	for _, w := range lowerWords(entity) {
		words[w] = true
	}
	key := strings.ToLower(entity)
	for _, c := range ranked {
		if c.key == key || c.urlOnly() {
			continue
		}
		for _, w := range lowerWords(c.text) {
			if words[w] {
				return ""
			}
		}
		return entity + " " + c.text
	}
	return ""
}

func frequencyFactor(freq int) float64 {
	return math.Min(float64(freq)/10, 1)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func containsFold(haystack, needle string) bool {
	return needle != "" && strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
