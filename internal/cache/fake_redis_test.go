package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// fakeRedis answers the handful of commands the cache issues, in process.
// It is installed as a hook, so no connection is ever dialled.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	sent [][]interface{}
}

func newFakeClient() (*redis.Client, *fakeRedis) {
	fake := &fakeRedis{data: make(map[string]string)}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	client.AddHook(fake)
	return client, fake
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *fakeRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (f *fakeRedis) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		args := cmd.Args()
		f.sent = append(f.sent, args)

		switch strings.ToLower(cmd.Name()) {
		case "set":
			key, val := fmt.Sprint(args[1]), fmt.Sprint(args[2])
			nx := strings.EqualFold(fmt.Sprint(args[len(args)-1]), "nx")
			if _, exists := f.data[key]; nx && exists {
				setBool(cmd, false)
				return nil
			}
			f.data[key] = val
			setBool(cmd, true)
		case "get":
			val, ok := f.data[fmt.Sprint(args[1])]
			if !ok {
				cmd.SetErr(redis.Nil)
				return redis.Nil
			}
			cmd.(*redis.StringCmd).SetVal(val)
		case "del":
			delete(f.data, fmt.Sprint(args[1]))
			cmd.(*redis.IntCmd).SetVal(1)
		case "evalsha", "eval":
			// Only the compare-and-delete release script is ever run.
			key, token := fmt.Sprint(args[3]), fmt.Sprint(args[4])
			if f.data[key] == token {
				delete(f.data, key)
				cmd.(*redis.Cmd).SetVal(int64(1))
			} else {
				cmd.(*redis.Cmd).SetVal(int64(0))
			}
		default:
			err := fmt.Errorf("fake redis: unsupported command %q", cmd.Name())
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

func setBool(cmd redis.Cmder, ok bool) {
	switch c := cmd.(type) {
	case *redis.BoolCmd:
		c.SetVal(ok)
	case *redis.StatusCmd:
		c.SetVal("OK")
	}
}

// lastArgs returns the arguments of the most recent command with the given name.
func (f *fakeRedis) lastArgs(name string) []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if strings.EqualFold(fmt.Sprint(f.sent[i][0]), name) {
			return f.sent[i]
		}
	}
	return nil
}

func (f *fakeRedis) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}
