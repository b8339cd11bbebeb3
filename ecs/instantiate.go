package ecs

import (
	"slices"
	"strings"

	"github.com/lgasteroids/asteroids/sid"
	"github.com/lgasteroids/asteroids/util"
)

type (
	entityOption struct {
		typ        TEntity
		use        util.M
		components []Decl[TComponent]
		services   []Decl[TService]
		order      *int
		scene      IScene
		tag        string
	}
	EntityOption func(o *entityOption)
)

func EntityType(t TEntity) EntityOption {
	return func(o *entityOption) {
		o.typ = t
	}
}

// EntityUse overrides fields of the entity itself.
func EntityUse(use util.M) EntityOption {
	return func(o *entityOption) {
		o.use = use
	}
}

// EntityComponents adds components to the declared ones; a class-less
// Provider overrides the declared component with the same id.
func EntityComponents(decls ...Decl[TComponent]) EntityOption {
	return func(o *entityOption) {
		o.components = append(o.components, decls...)
	}
}

func EntityServices(decls ...Decl[TService]) EntityOption {
	return func(o *entityOption) {
		o.services = append(o.services, decls...)
	}
}

func EntityOrder(order int) EntityOption {
	return func(o *entityOption) {
		o.order = &order
	}
}

func EntityScene(scene IScene) EntityOption {
	return func(o *entityOption) {
		o.scene = scene
	}
}

func EntityTag(tag string) EntityOption {
	return func(o *entityOption) {
		o.tag = tag
	}
}

// Instantiate builds an entity with its components and services. Nothing is
// registered when an error is returned. Hooks run entity first, components in
// declaration order, then newly created services: every OnAwake before any OnStart.
// An entity destroyed by those hooks, or whose scene they unload, is returned
// already destroyed.
func (a *Application) Instantiate(opts ...EntityOption) (IEntity, *util.Err) {
	o := &entityOption{
		typ: TDefaultEntity,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.scene == nil || !o.scene.base().live(a) {
		return nil, util.NewErr(util.EcNotExist, util.M{
			"entity": o.typ,
			"error":  "no live scene",
		})
	}
	meta, ok := a.registry.Entity(o.typ)
	if !ok {
		return nil, notRegistered("entity", o.typ)
	}

	decls := make([]Decl[TComponent], 0, len(meta.Components)+len(o.components))
	decls = append(append(decls, meta.Components...), o.components...)
	providers := mergeProviders(ToProviders(decls))
	compMetas, err := a.componentMetas(providers)
	if err != nil {
		err.AddParam("entity", o.typ)
		return nil, err
	}
	if err = checkRequired(o.typ, providers, compMetas, nil); err != nil {
		return nil, err
	}

	svcDecls := make([]Decl[TService], 0, len(meta.Services)+len(o.services))
	svcDecls = append(append(svcDecls, meta.Services...), o.services...)
	for _, cm := range compMetas {
		svcDecls = append(svcDecls, cm.Services...)
	}
	plan, err := a.planServices(svcDecls)
	if err != nil {
		err.AddParam("entity", o.typ)
		return nil, err
	}

	entity := meta.New()
	eb := entity.entity()
	order := meta.Order
	if o.order != nil {
		order = *o.order
	}
	a.bind(&eb.object, entity, sid.GetStrId(), order, meta.caps)
	eb.typ = o.typ
	eb.tag = o.tag
	eb.scene = o.scene
	if err = applyUse(entity, o.use); err != nil {
		err.AddParam("entity", o.typ)
		return nil, err
	}
	created, err := a.buildServices(plan)
	if err != nil {
		return nil, err
	}
	comps := make([]IComponent, 0, len(providers))
	for i, p := range providers {
		c, err := a.newComponent(entity, p, compMetas[i])
		if err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}

	a.commitServices(created)
	for _, t := range plan.roots {
		s, _ := a.services.Get(t)
		eb.addService(s)
	}
	for _, c := range comps {
		eb.addComponent(c)
	}

	a.awake(entity)
	for _, c := range comps {
		a.awake(c)
	}
	for _, s := range created {
		a.awake(s)
	}
	a.start(entity)
	for _, c := range comps {
		a.start(c)
	}
	for _, s := range created {
		a.start(s)
	}

	if eb.destroyed {
		return entity, nil
	}
	// the scene was unloaded by a hook before the entity joined it
	if !eb.scene.base().live(a) {
		a.Destroy(entity)
		return entity, nil
	}
	_ = eb.scene.scene().entities.Add(entity)
	_ = a.entities.AddSorted(entity, byOrder[IEntity])
	for _, c := range comps {
		if c.base().destroyed {
			continue
		}
		_ = a.components.AddSorted(c, byOrder[IComponent])
	}
	return entity, nil
}

// AddComponent attaches a component to a live entity. Its required types
// must already be on the entity.
func (a *Application) AddComponent(entity IEntity, decl Decl[TComponent]) (IComponent, *util.Err) {
	if entity == nil || !entity.base().live(a) {
		return nil, util.NewErr(util.EcNotExist, util.M{
			"error": "no live entity",
		})
	}
	providers := ToProviders([]Decl[TComponent]{decl})
	if len(providers) == 0 || providers[0].Class == "" {
		return nil, util.NewErr(util.EcParamsErr, util.M{
			"entity": entity.Type(),
			"error":  "component class required",
		})
	}
	p := providers[0]
	eb := entity.entity()
	if _, ok := eb.GetComponentById(p.Id); ok {
		return nil, util.NewErr(util.EcExist, util.M{
			"entity":    entity.Type(),
			"component": p.Id,
		})
	}
	cm, ok := a.registry.Component(p.Class)
	if !ok {
		return nil, notRegistered("component", p.Class)
	}
	if err := checkRequired(entity.Type(), providers, []*ComponentMeta{cm}, entity.Components()); err != nil {
		return nil, err
	}
	plan, err := a.planServices(cm.Services)
	if err != nil {
		return nil, err
	}
	created, err := a.buildServices(plan)
	if err != nil {
		return nil, err
	}
	c, err := a.newComponent(entity, p, cm)
	if err != nil {
		return nil, err
	}
	a.commitServices(created)
	for _, t := range plan.roots {
		s, _ := a.services.Get(t)
		eb.addService(s)
	}
	eb.addComponent(c)
	a.awake(c)
	for _, s := range created {
		a.awake(s)
	}
	a.start(c)
	for _, s := range created {
		a.start(s)
	}
	if !c.base().destroyed {
		_ = a.components.AddSorted(c, byOrder[IComponent])
	}
	return c, nil
}

// AddService links the singleton of type t to the entity, creating it if needed.
func (a *Application) AddService(entity IEntity, t TService) (IService, *util.Err) {
	if entity == nil || !entity.base().live(a) {
		return nil, util.NewErr(util.EcNotExist, util.M{
			"service": t,
			"error":   "no live entity",
		})
	}
	plan, err := a.planServices([]Decl[TService]{t})
	if err != nil {
		return nil, err
	}
	created, err := a.buildServices(plan)
	if err != nil {
		return nil, err
	}
	a.commitServices(created)
	s, _ := a.services.Get(t)
	entity.entity().addService(s)
	for _, svc := range created {
		a.awake(svc)
	}
	for _, svc := range created {
		a.start(svc)
	}
	return s, nil
}

func (a *Application) componentMetas(providers []Provider[TComponent]) ([]*ComponentMeta, *util.Err) {
	metas := make([]*ComponentMeta, len(providers))
	ids := make(map[string]struct{}, len(providers))
	for i, p := range providers {
		if _, ok := ids[p.Id]; ok {
			return nil, util.NewErr(util.EcExist, util.M{
				"component": p.Id,
			})
		}
		ids[p.Id] = struct{}{}
		cm, ok := a.registry.Component(p.Class)
		if !ok {
			return nil, notRegistered("component", p.Class)
		}
		metas[i] = cm
	}
	return metas, nil
}

func checkRequired(entity TEntity, providers []Provider[TComponent], metas []*ComponentMeta, existing []IComponent) *util.Err {
	has := func(t TComponent) bool {
		for _, p := range providers {
			if p.Class == t {
				return true
			}
		}
		for _, c := range existing {
			if c.Type() == t {
				return true
			}
		}
		return false
	}
	for _, cm := range metas {
		for _, r := range cm.Required {
			if !has(r) {
				return util.NewErr(util.EcMissingComponent, util.M{
					"entity":    entity,
					"component": cm.Type,
					"required":  r,
				})
			}
		}
	}
	return nil
}

func (a *Application) newComponent(entity IEntity, p Provider[TComponent], meta *ComponentMeta) (IComponent, *util.Err) {
	c := meta.New()
	cb := c.component()
	a.bind(&cb.object, c, p.Id, meta.Order, meta.caps)
	cb.typ = p.Class
	cb.entity = entity
	cb.lastTime = a.Now()
	if err := applyUse(c, p.Use); err != nil {
		err.AddParams(util.M{
			"entity":    entity.Type(),
			"component": p.Class,
		})
		return nil, err
	}
	return c, nil
}

type servicePlan struct {
	// roots are the declared types, deduplicated in declaration order.
	roots []TService
	// build lists the types to create, dependencies first.
	build []TService
	use   map[TService]util.M
}

// planServices resolves the dependency graph before anything is built, so a
// cycle or an unknown type leaves the application untouched.
func (a *Application) planServices(decls []Decl[TService]) (*servicePlan, *util.Err) {
	plan := &servicePlan{
		use: make(map[TService]util.M),
	}
	providers := ToProviders(decls)
	for _, p := range providers {
		if p.Class == "" {
			continue
		}
		if !slices.Contains(plan.roots, p.Class) {
			plan.roots = append(plan.roots, p.Class)
		}
		if len(p.Use) > 0 {
			plan.use[p.Class] = plan.use[p.Class].Merge(p.Use)
		}
	}
	done := make(map[TService]bool)
	var visit func(t TService, path []TService) *util.Err
	visit = func(t TService, path []TService) *util.Err {
		if done[t] || a.services.Has(t) {
			return nil
		}
		if idx := slices.Index(path, t); idx >= 0 {
			cycle := make([]string, 0, len(path)-idx+1)
			for _, s := range path[idx:] {
				cycle = append(cycle, string(s))
			}
			cycle = append(cycle, string(t))
			return util.NewErr(util.EcCircularService, util.M{
				"cycle": strings.Join(cycle, " -> "),
			})
		}
		meta, ok := a.registry.Service(t)
		if !ok {
			return notRegistered("service", t)
		}
		path = append(path, t)
		for _, dep := range meta.Services {
			if err := visit(dep, path); err != nil {
				return err
			}
		}
		done[t] = true
		plan.build = append(plan.build, t)
		return nil
	}
	for _, t := range plan.roots {
		if err := visit(t, nil); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (a *Application) buildServices(plan *servicePlan) ([]IService, *util.Err) {
	created := make([]IService, 0, len(plan.build))
	byType := make(map[TService]IService, len(plan.build))
	for _, t := range plan.build {
		meta, _ := a.registry.Service(t)
		s := meta.New()
		sb := s.service()
		a.bind(&sb.object, s, string(t), 0, meta.caps)
		sb.typ = t
		for _, dep := range meta.Services {
			d, ok := byType[dep]
			if !ok {
				d, _ = a.services.Get(dep)
			}
			sb.services = append(sb.services, d)
		}
		if err := applyUse(s, plan.use[t]); err != nil {
			err.AddParam("service", t)
			return nil, err
		}
		byType[t] = s
		created = append(created, s)
	}
	return created, nil
}

func (a *Application) commitServices(created []IService) {
	for _, s := range created {
		_ = a.services.Add(s)
	}
}
