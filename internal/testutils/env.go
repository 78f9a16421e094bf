package testutils

import "os"

// SavedEnv 记录环境变量修改前的状态
type SavedEnv struct {
	Key   string
	Had   bool
	Value string
}

// SetEnv 设置环境变量并返回其原始状态
func SetEnv(key, value string) SavedEnv {
	prev, had := os.LookupEnv(key)
	_ = os.Setenv(key, value)
	return SavedEnv{Key: key, Had: had, Value: prev}
}

// SetEnvs 批量设置环境变量
func SetEnvs(kv map[string]string) []SavedEnv {
	saved := make([]SavedEnv, 0, len(kv))
	for k, v := range kv {
		saved = append(saved, SetEnv(k, v))
	}
	return saved
}

// RestoreEnv 将环境变量恢复到保存时的状态
func RestoreEnv(envs []SavedEnv) {
	for _, env := range envs {
		if env.Had {
			_ = os.Setenv(env.Key, env.Value)
		} else {
			_ = os.Unsetenv(env.Key)
		}
	}
}
