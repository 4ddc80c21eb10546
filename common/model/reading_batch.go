package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Reading 单个传感器读数
type Reading struct {
	Name  string  `json:"sensor_type"`
	Value float64 `json:"value"`
}

// ReadingBatch 某地块某时刻的一批读数（保持输入顺序）
// JSON 形式为对象 {"temperature": 25.1, "humidity": 60}，解码时保留 key 顺序
type ReadingBatch []Reading

// Add 追加读数
func (b *ReadingBatch) Add(name string, value float64) {
	*b = append(*b, Reading{Name: name, Value: value})
}

// Get 按名称取第一个读数
func (b ReadingBatch) Get(name string) (float64, bool) {
	for _, r := range b {
		if r.Name == name {
			return r.Value, true
		}
	}
	return 0, false
}

// MarshalJSON 编码为有序 JSON 对象
func (b ReadingBatch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 从 JSON 对象解码，保留 key 顺序
// 已知类别的 value 必须是数值；未知 key 的非数值 value 直接丢弃
// 重复 key 以最后一个值为准，位置取首次出现处
func (b *ReadingBatch) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*b = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("readings must be a JSON object")
	}

	out := make(ReadingBatch, 0)
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("readings key must be a string")
		}

		value, ok, err := decodeReadingValue(dec, key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if i, seen := index[key]; seen {
			out[i].Value = value
			continue
		}
		index[key] = len(out)
		out = append(out, Reading{Name: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = out
	return nil
}

// decodeReadingValue 读取 key 对应的 value，ok 为 false 表示该项被跳过
func decodeReadingValue(dec *json.Decoder, key string) (float64, bool, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return 0, false, err
	}

	inner := json.NewDecoder(bytes.NewReader(raw))
	inner.UseNumber()
	tok, _ := inner.Token()
	num, isNum := tok.(json.Number)
	if !isNum {
		if _, known := ParseSensorCategory(key); known {
			return 0, false, fmt.Errorf("reading %q must be numeric", key)
		}
		return 0, false, nil
	}
	value, err := num.Float64()
	if err != nil {
		return 0, false, fmt.Errorf("reading %q: %w", key, err)
	}
	return value, true, nil
}
