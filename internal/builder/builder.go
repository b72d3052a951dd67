// Package builder drives one editing session of a website: loading it,
// holding the in-memory section list and saving it back through the
// template service.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"web3builder/internal/domain/sections"
	"web3builder/internal/domain/website"
	"web3builder/internal/services"
	"web3builder/internal/session"
)

type State string

const (
	StateLoading       State = "loading"
	StateEmpty         State = "empty"
	StateEditing       State = "editing"
	StateSaving        State = "saving"
	StateErrorSurfaced State = "error"
)

// NewID is the identity of a website that has never been saved.
const NewID = "new"

var ErrSaveInProgress = errors.New("save already in progress")

// Patch carries the website fields the editor form changes. Nil fields are
// left as they are.
type Patch struct {
	Name         *string         `json:"name"`
	Subdomain    *string         `json:"subdomain"`
	CustomDomain *string         `json:"custom_domain"`
	EnsDomain    *string         `json:"ens_domain"`
	SnsDomain    *string         `json:"sns_domain"`
	Settings     json.RawMessage `json:"settings"`
}

type Builder struct {
	mu sync.Mutex

	svc    services.TemplateService
	sess   session.Source
	editor *sections.Editor

	state  State
	id     string
	site   website.Website
	list   []sections.Section
	err    error
	saving bool

	// derived is the last subdomain computed from the name; while the
	// subdomain still equals it the user has not typed their own.
	derived string

	observe func(State)
}

func New(svc services.TemplateService, sess session.Source, catalog sections.Catalog) *Builder {
	return &Builder{
		svc:    svc,
		sess:   sess,
		editor: sections.NewEditor(catalog),
		state:  StateLoading,
		id:     NewID,
	}
}

// Load enters the builder for id. NewID starts an empty website; any other id
// loads the website and its content.
func (b *Builder) Load(ctx context.Context, id string) error {
	b.mu.Lock()
	b.err = nil
	b.setState(StateLoading)
	b.mu.Unlock()

	if id == "" || id == NewID {
		b.mu.Lock()
		b.id = NewID
		b.site = website.Website{}
		b.list = nil
		b.derived = ""
		b.setState(StateEmpty)
		b.mu.Unlock()
		return nil
	}

	w, err := b.svc.FetchWebsite(ctx, id)
	if err != nil {
		return b.fail(fmt.Errorf("load website: %w", err))
	}
	items, err := b.svc.FetchWebsiteContent(ctx, id)
	if err != nil {
		return b.fail(fmt.Errorf("load content: %w", err))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.id = w.ID
	b.site = *w
	b.list = sections.FromContent(items, b.editor.Catalog())
	b.derived = ""
	b.setState(StateEditing)
	return nil
}

// Observe registers fn to be called on every state change. fn runs with the
// builder locked and must not call back into it.
func (b *Builder) Observe(fn func(State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observe = fn
}

// setState must be called with b.mu held.
func (b *Builder) setState(s State) {
	b.state = s
	if b.observe != nil {
		b.observe(s)
	}
}

func (b *Builder) fail(err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
	b.setState(StateErrorSurfaced)
	return err
}

// SelectTemplate records the chosen template and, when there are no sections
// yet, seeds the default starter sections.
func (b *Builder) SelectTemplate(templateID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tid := templateID
	b.site.TemplateID = &tid
	if len(b.list) == 0 {
		b.list = sections.DefaultSeed(b.editor.Catalog(), uuid.NewString)
	}
	b.setState(StateEditing)
}

func (b *Builder) SetWebsite(p Patch) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.Subdomain != nil {
		b.site.Subdomain = strings.TrimSpace(*p.Subdomain)
	}
	if p.Name != nil {
		b.site.Name = *p.Name
		if b.site.Subdomain == "" || b.site.Subdomain == b.derived {
			b.derived = website.MakeSubdomain(b.site.Name)
			b.site.Subdomain = b.derived
		}
	}
	if p.CustomDomain != nil {
		b.site.CustomDomain = p.CustomDomain
	}
	if p.EnsDomain != nil {
		b.site.EnsDomain = p.EnsDomain
	}
	if p.SnsDomain != nil {
		b.site.SnsDomain = p.SnsDomain
	}
	if len(p.Settings) > 0 {
		b.site.Settings = p.Settings
	}
	if b.state == StateEmpty {
		b.setState(StateEditing)
	}
}

// SetSections replaces the section list wholesale.
func (b *Builder) SetSections(list []sections.Section) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.list = append([]sections.Section(nil), list...)
	if b.state == StateEmpty && len(list) > 0 {
		b.setState(StateEditing)
	}
}

func (b *Builder) Sections() []sections.Section {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]sections.Section(nil), b.list...)
}

func (b *Builder) Editor() *sections.Editor {
	return b.editor
}

func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Builder) ID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

func (b *Builder) Website() website.Website {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.site
}

// Err is the error of the last failed load or save, nil after a clean save.
func (b *Builder) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Save writes the website and then its content. A content failure does not
// undo the website write; the builder returns to editing with the error kept
// in Err.
func (b *Builder) Save(ctx context.Context) (*website.Website, error) {
	b.mu.Lock()
	if b.saving {
		b.mu.Unlock()
		return nil, ErrSaveInProgress
	}

	var missing []string
	if strings.TrimSpace(b.site.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(b.site.Subdomain) == "" {
		missing = append(missing, "subdomain")
	}
	owner, ok := b.sess.Owner()
	if !ok {
		missing = append(missing, "session")
	}
	if len(missing) > 0 {
		err := fmt.Errorf("save: missing %s: %w", strings.Join(missing, ", "), website.ErrValidation)
		b.err = err
		b.mu.Unlock()
		return nil, err
	}

	b.saving = true
	b.setState(StateSaving)
	isNew := b.id == NewID
	data := b.site
	if !isNew {
		data.ID = b.id
	}
	list := append([]sections.Section(nil), b.list...)
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.saving = false
		b.mu.Unlock()
	}()

	saved, err := b.svc.SaveWebsite(ctx, data, owner, isNew)
	if err != nil {
		return nil, b.surface(fmt.Errorf("save website: %w", err))
	}

	b.mu.Lock()
	b.id = saved.ID
	b.site = *saved
	b.mu.Unlock()

	if err := b.svc.SaveWebsiteContent(ctx, saved.ID, list); err != nil {
		return saved, b.surface(fmt.Errorf("save content: %w", err))
	}

	b.mu.Lock()
	b.err = nil
	b.setState(StateEditing)
	b.mu.Unlock()
	return saved, nil
}

// surface records err, passes through StateErrorSurfaced and leaves the
// builder editable again.
func (b *Builder) surface(err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
	b.setState(StateErrorSurfaced)
	b.setState(StateEditing)
	return err
}
