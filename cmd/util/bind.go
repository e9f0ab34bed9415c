package util

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Bind registers a flag for every tagged field of cfg and binds it to
// the viper key derived from the field path. Nested structs prefix
// their flags with the parent flag name; a flag tag of "-" adds no
// prefix and the field must be squashed when decoding.
func Bind(cfg any, flags *pflag.FlagSet, vip *viper.Viper) error {
	return bind(cfg, flags, vip, "", "")
}

func bind(cfg any, flags *pflag.FlagSet, vip *viper.Viper, fPrefix string, kPrefix string) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		flag := field.Tag.Get("flag")
		desc := field.Tag.Get("desc")
		value := field.Tag.Get("default")

		if flag == "" {
			continue
		}

		var n string
		if flag == "-" {
			n = fPrefix
		} else if fPrefix == "" {
			n = flag
		} else {
			n = fmt.Sprintf("%s-%s", fPrefix, flag)
		}

		var k string
		if flag == "-" {
			k = kPrefix
		} else if kPrefix == "" {
			k = field.Name
		} else {
			k = fmt.Sprintf("%s.%s", kPrefix, field.Name)
		}

		switch field.Type.Kind() {
		case reflect.String:
			flags.String(n, value, desc)
		case reflect.Bool:
			flags.Bool(n, value == "true", desc)
		case reflect.Int:
			v, _ := strconv.Atoi(value)
			flags.Int(n, v, desc)
		case reflect.Int64:
			if field.Type == reflect.TypeOf(time.Duration(0)) {
				v, _ := time.ParseDuration(value)
				flags.Duration(n, v, desc)
			} else {
				v, _ := strconv.ParseInt(value, 10, 64)
				flags.Int64(n, v, desc)
			}
		case reflect.Float64:
			v, _ := strconv.ParseFloat(value, 64)
			flags.Float64(n, v, desc)
		case reflect.Slice:
			// slices may only be set in the config file
			continue
		case reflect.Map:
			if field.Type != reflect.TypeOf(map[string]string{}) {
				panic(fmt.Sprintf("unsupported map type: %s", field.Type))
			}
			if value == "" {
				value = "{}"
			}
			var v map[string]string
			if err := json.Unmarshal([]byte(value), &v); err != nil {
				return err
			}
			flags.StringToString(n, v, desc)
		case reflect.Struct:
			if err := bind(v.Field(i).Addr().Interface(), flags, vip, n, k); err != nil {
				return err
			}
			continue
		default:
			panic(fmt.Sprintf("unsupported type %s", field.Type.Kind()))
		}

		_ = vip.BindPFlag(k, flags.Lookup(n))
	}

	return nil
}
