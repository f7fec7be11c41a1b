package gconf

import (
	"reflect"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x"
)

// UpdateCost is charged for every configuration update.
const UpdateCost = 50

// OwnedConfig is a configuration with an owner. A configuration update
// message must be signed by the owner in order to be authorized to apply
// the change.
type OwnedConfig interface {
	Configuration
	GetOwner() sharepool.Address
}

// UpdateConfigurationHandler processes configuration patch messages.
type UpdateConfigurationHandler struct {
	pkg       string
	config    reflect.Type
	auth      x.Authenticator
	initAdmin func(sharepool.ReadOnlyKVStore) (sharepool.Address, error)
}

var _ sharepool.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message. The message must have a "Patch" field of
// the same type as the config.
//
// To pass authentication step, each message must be signed by the current
// configuration owner.
//
// When the configuration does not exist yet, nobody owns it. An optional
// initConfAdmin returns the address allowed to create it in that case.
// Once a configuration is created, initConfAdmin is not used anymore.
func NewUpdateConfigurationHandler(
	pkg string,
	config OwnedConfig,
	auth x.Authenticator,
	initConfAdmin func(sharepool.ReadOnlyKVStore) (sharepool.Address, error),
) UpdateConfigurationHandler {
	t := reflect.TypeOf(config)
	if t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		panic("configuration must be a pointer to a struct")
	}
	return UpdateConfigurationHandler{
		pkg:       pkg,
		config:    t,
		auth:      auth,
		initAdmin: initConfAdmin,
	}
}

func (h UpdateConfigurationHandler) Check(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &sharepool.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	sharepool.GetLogger(ctx).Info("configuration updated", "package", h.pkg)
	return &sharepool.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx) error {
	if err := sharepool.ConsumeGas(ctx, UpdateCost, "update configuration"); err != nil {
		return err
	}

	config := reflect.New(h.config.Elem()).Interface().(OwnedConfig)
	switch err := Load(store, h.pkg, config); {
	case err == nil:
		owner := config.GetOwner()
		if len(owner) == 0 {
			return errors.Wrap(errors.ErrUnauthorized, "owner signature required")
		}
		if !h.auth.HasAddress(ctx, owner) {
			return errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
		}
	case errors.ErrNotFound.Is(err):
		if h.initAdmin == nil {
			return errors.Wrap(errors.ErrUnauthorized, "configuration does not exist and cannot be initialized")
		}
		admin, err := h.initAdmin(store)
		if err != nil {
			return errors.Wrap(err, "get init admin")
		}
		if !h.auth.HasAddress(ctx, admin) {
			return errors.Wrap(errors.ErrUnauthorized, "initialization admin signature required")
		}
	default:
		return errors.Wrap(err, "load current configuration")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(config, payload); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// patch copies all non zero fields of the payload into the config.
func patch(config OwnedConfig, payload OwnedConfig) error {
	if reflect.TypeOf(payload) != reflect.TypeOf(config) {
		return errors.Wrapf(errors.ErrType, "cannot patch %T with %T", config, payload)
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		if got.IsZero() {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

// patchPayload expects the transaction to have a message with "Patch"
// field. Content of this field is extracted and returned.
func patchPayload(tx sharepool.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() {
		return nil, errors.Wrapf(errors.ErrMsg, "%T has no Patch field", msg)
	}
	if field.Kind() != reflect.Ptr || field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrType, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
